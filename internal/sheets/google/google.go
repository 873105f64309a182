package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"admindash/internal/core"
	"admindash/internal/sheets"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client writes dashboard reports into one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ sheets.ReportWriter = (*Client)(nil)

type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client authenticated with service account
// credentials, inline or from a file. Without either, Application Default
// Credentials are used.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts.SpreadsheetID, opts.SheetName), nil
}

// NewWithService wraps an existing service. sheetName defaults to "Dashboard".
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Dashboard"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	if len(credentialsJSON) == 0 && opts.CredentialsFile != "" {
		raw, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = raw
	}

	clientOpts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if len(credentialsJSON) > 0 {
		clientOpts = append(clientOpts, goption.WithCredentialsJSON(credentialsJSON))
	} else {
		slog.InfoContext(ctx, "No Sheets credentials configured, using application default credentials")
	}

	service, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteReport clears the report sheet and writes r from A1.
func (c *Client) WriteReport(ctx context.Context, r sheets.Report) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	whole := fmt.Sprintf("%s!A:Z", quoteSheet(c.sheetName))
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, whole, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", whole, err)
	}

	start := fmt.Sprintf("%s!A1", quoteSheet(c.sheetName))
	vr := &gsheet.ValueRange{Values: reportRows(r)}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, start, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", start, err)
	}

	slog.InfoContext(ctx, "Report written",
		"component", "sheets",
		"sheets_range", resp.UpdatedRange,
		"rows", resp.UpdatedRows)
	return resp.UpdatedRange, nil
}

// reportRows lays the report out top to bottom: summary, expense and earning
// categories, then projects. Sections are separated by an empty row.
func reportRows(r sheets.Report) [][]any {
	rows := [][]any{
		{"Dashboard report", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"Summary"},
		{"Total expenses", num(r.Summary.TotalExpenses)},
		{"Total earnings", num(r.Summary.TotalEarnings)},
		{"Profit/Loss", num(r.Summary.ProfitLoss)},
		{"Average monthly expense", num(r.Summary.AverageMonthlyExpense)},
		{"Financial runway (months)", runwayCell(r.Summary.Runway)},
	}

	rows = append(rows, []any{}, []any{"Expenses by category", "Amount"})
	for _, ca := range r.Expenses.Sorted() {
		rows = append(rows, []any{ca.Name, num(ca.Amount)})
	}

	rows = append(rows, []any{}, []any{"Earnings by category", "Amount"})
	for _, ca := range r.Earnings.Sorted() {
		rows = append(rows, []any{ca.Name, num(ca.Amount)})
	}

	if len(r.Projects) > 0 {
		rows = append(rows, []any{}, []any{"Project", "Budget", "Expenses", "Revenue", "Net", "Budget remaining"})
		for _, p := range r.Projects {
			rows = append(rows, []any{
				p.ProjectKey,
				num(p.Budget),
				num(p.Expenses),
				num(p.Revenue),
				num(p.Net),
				num(p.BudgetRemaining),
			})
		}
	}
	return rows
}

func runwayCell(rw core.Runway) any {
	switch rw.State {
	case core.RunwayFinite:
		return num(rw.Months.Round(2))
	case core.RunwayUnbounded:
		if rw.Sign < 0 {
			return "-unbounded"
		}
		return "unbounded"
	default:
		return "undefined"
	}
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// quoteSheet quotes sheet names that are not plain identifiers.
func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '!-") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
