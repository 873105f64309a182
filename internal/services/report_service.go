package services

import (
	"context"
	"errors"
	"fmt"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/sheets"
)

// ErrReportsDisabled is returned when no report writer is configured.
var ErrReportsDisabled = errors.New("report export is not configured")

// ReportService exports the organization-level dashboard to a spreadsheet.
type ReportService struct {
	dashboard *DashboardService
	records   *records.Fetcher
	writer    sheets.ReportWriter
	logger    *log.Logger
}

// NewReportService accepts a nil writer; Export then fails with
// ErrReportsDisabled.
func NewReportService(d *DashboardService, r *records.Fetcher, w sheets.ReportWriter, logger *log.Logger) *ReportService {
	return &ReportService{
		dashboard: d,
		records:   r,
		writer:    w,
		logger:    logger.WithComponent(log.ComponentReport),
	}
}

func (s *ReportService) Enabled() bool {
	return s.writer != nil
}

// Build assembles the report from the current dataset. Project financials
// are derived from the same dataset so the sections agree with each other.
func (s *ReportService) Build(ctx context.Context) (sheets.Report, error) {
	ds, err := s.dashboard.Dataset(ctx)
	if err != nil {
		return sheets.Report{}, err
	}
	projects, err := s.records.Projects(ctx)
	if err != nil {
		return sheets.Report{}, err
	}

	expenses := core.AggregateByCategory(ds.Expenses, "")
	earnings := core.AggregateByCategory(ds.Earnings, "")
	r := sheets.Report{
		GeneratedAt: ds.LoadedAt,
		Summary:     core.Summarize(expenses, earnings),
		Expenses:    expenses,
		Earnings:    earnings,
		Projects:    make([]core.ProjectFinancials, 0, len(projects)),
	}
	for _, p := range projects {
		key := p.Key()
		r.Projects = append(r.Projects, core.NewProjectFinancials(p,
			core.ProjectExpenses(ds.Expenses, key),
			core.ProjectRevenue(ds.Earnings, key)))
	}
	return r, nil
}

// Export writes the report and returns the written range.
func (s *ReportService) Export(ctx context.Context) (string, error) {
	if s.writer == nil {
		return "", ErrReportsDisabled
	}
	r, err := s.Build(ctx)
	if err != nil {
		return "", err
	}
	ref, err := s.writer.WriteReport(ctx, r)
	if err != nil {
		s.logger.ErrorContext(ctx, "Report export failed", log.FieldError, err, log.FieldOperation, log.OpExport)
		return "", fmt.Errorf("export report: %w", err)
	}
	s.logger.InfoContext(ctx, "Report exported", log.FieldSheetsRange, ref, log.FieldOperation, log.OpExport)
	return ref, nil
}
