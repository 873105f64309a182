package view

import (
	"sort"
	"time"

	"admindash/internal/core"

	"github.com/shopspring/decimal"
)

// RunwayAxisPadding is added on both sides of the runway bar's y-axis.
var RunwayAxisPadding = decimal.NewFromInt(5)

// Dataset is the read-only snapshot of one load cycle.
type Dataset struct {
	Expenses []core.Transaction `json:"expenses"`
	Earnings []core.Transaction `json:"earnings"`
	LoadedAt time.Time          `json:"loadedAt"`
}

type (
	Dashboard struct {
		State       State                 `json:"state"`
		ExpensesPie []core.CategoryAmount `json:"expensesPie"`
		EarningsPie []core.CategoryAmount `json:"earningsPie"`
		Summary     core.Summary          `json:"summary"`
		Comparison  BarChart              `json:"comparison"`
		Runway      BarChart              `json:"runway"`
		TableRows   []core.CategoryAmount `json:"tableRows"`
		Details     []DetailRow           `json:"details"`
		AccountIDs  []string              `json:"accountIds"`
		LoadedAt    time.Time             `json:"loadedAt"`
	}

	BarChart struct {
		Labels    []string `json:"labels"`
		YAxisName string   `json:"yAxisName"`
		YAxisUnit string   `json:"yAxisUnit"`
		Series    []Series `json:"seriesData"`
		// YAxis is nil when the value has no finite bounds.
		YAxis *Axis `json:"yAxis,omitempty"`
	}

	Series struct {
		Name string            `json:"name"`
		Type string            `json:"type"`
		Data []decimal.Decimal `json:"data"`
	}

	Axis struct {
		Min decimal.Decimal `json:"min"`
		Max decimal.Decimal `json:"max"`
	}

	DetailRow struct {
		Type      string          `json:"type"`
		Date      string          `json:"date"`
		Amount    decimal.Decimal `json:"amount"`
		AccountID string          `json:"accountId"`
	}
)

// Bind maps a dataset through the session's selection into the dashboard
// payload. It does not modify ds.
func Bind(s State, ds Dataset) Dashboard {
	account := s.Filter()
	expenses := core.AggregateByCategory(ds.Expenses, account)
	earnings := core.AggregateByCategory(ds.Earnings, account)
	summary := core.Summarize(expenses, earnings)

	d := Dashboard{
		State:       s,
		ExpensesPie: expenses.Sorted(),
		EarningsPie: earnings.Sorted(),
		Summary:     summary,
		Comparison:  comparisonChart(summary),
		Runway:      runwayChart(summary.Runway),
		TableRows:   tableRows(s.Card, expenses, earnings),
		Details:     []DetailRow{},
		AccountIDs:  AccountIDs(ds),
		LoadedAt:    ds.LoadedAt,
	}
	if s.OpenCategory != "" {
		d.Details = Details(ds, s.OpenCategory, account)
	}
	return d
}

func comparisonChart(s core.Summary) BarChart {
	return BarChart{
		Labels:    []string{"Expenses", "Earnings"},
		YAxisName: "Amount",
		YAxisUnit: "$",
		Series: []Series{
			{Name: "Expenses", Type: "bar", Data: []decimal.Decimal{s.TotalExpenses}},
			{Name: "Earnings", Type: "bar", Data: []decimal.Decimal{s.TotalEarnings}},
		},
	}
}

func runwayChart(r core.Runway) BarChart {
	chart := BarChart{
		Labels:    []string{"Financial Runway"},
		YAxisName: "Months",
		Series:    []Series{{Name: "Financial Runway", Type: "bar", Data: []decimal.Decimal{}}},
	}
	if !r.IsFinite() {
		return chart
	}
	months := r.Months.Round(2)
	chart.Series[0].Data = []decimal.Decimal{months}
	chart.YAxis = &Axis{
		Min: decimal.Min(months, decimal.Zero).Sub(RunwayAxisPadding),
		Max: decimal.Max(months, decimal.Zero).Add(RunwayAxisPadding),
	}
	return chart
}

// tableRows lists the selected card's categories. Both pies are built from the
// same filtered aggregates, so every row is visible in a pie.
func tableRows(c Card, expenses, earnings core.CategoryTotals) []core.CategoryAmount {
	switch c {
	case CardExpenses:
		return expenses.Sorted()
	case CardEarnings:
		return earnings.Sorted()
	default:
		return []core.CategoryAmount{}
	}
}

// Details lists the expenses and then the earnings of one category, honoring
// the account filter.
func Details(ds Dataset, category, accountID string) []DetailRow {
	match := func(t core.Transaction) bool { return t.Category == category }
	var rows []DetailRow
	for _, set := range [][]core.Transaction{ds.Expenses, ds.Earnings} {
		for _, t := range core.Filter(set, core.ByAccount(accountID), match) {
			rows = append(rows, DetailRow{
				Type:      t.Kind.Label(),
				Date:      formatDate(t.Date),
				Amount:    t.Amount,
				AccountID: t.AccountID,
			})
		}
	}
	if rows == nil {
		rows = []DetailRow{}
	}
	return rows
}

// AccountIDs returns the distinct non-empty account ids across both
// transaction sets, sorted.
func AccountIDs(ds Dataset) []string {
	seen := map[string]struct{}{}
	for _, set := range [][]core.Transaction{ds.Expenses, ds.Earnings} {
		for _, t := range set {
			if t.AccountID != "" {
				seen[t.AccountID] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
