// Package sheets holds the outbound port for spreadsheet reports.
package sheets

import (
	"context"
	"time"

	"admindash/internal/core"
)

// Report is an organization-level snapshot of the dashboard.
type Report struct {
	GeneratedAt time.Time
	Summary     core.Summary
	Expenses    core.CategoryTotals
	Earnings    core.CategoryTotals
	Projects    []core.ProjectFinancials
}

type ReportWriter interface {
	// WriteReport replaces the report sheet's contents and returns the
	// range that was written.
	WriteReport(ctx context.Context, r Report) (string, error)
}
