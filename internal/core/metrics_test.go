package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totals(kv map[string]int64) CategoryTotals {
	out := CategoryTotals{}
	for k, v := range kv {
		out[k] = decimal.NewFromInt(v)
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(totals(map[string]int64{"Rent": 300}), totals(map[string]int64{"Sales": 500}))

	assert.Equal(t, "300", s.TotalExpenses.String())
	assert.Equal(t, "500", s.TotalEarnings.String())
	assert.Equal(t, "200", s.ProfitLoss.String())
	assert.Equal(t, "25", s.AverageMonthlyExpense.String())
	require.True(t, s.Runway.IsFinite())
	assert.Equal(t, "8", s.Runway.Months.String())
	assert.Equal(t, 8.0, s.Runway.Float64())
}

func TestSummarizeRunwayIsExact(t *testing.T) {
	s := Summarize(totals(map[string]int64{"Rent": 7}), totals(map[string]int64{"Sales": 14}))

	require.True(t, s.Runway.IsFinite())
	assert.Equal(t, "12", s.Runway.Months.String())
	assert.True(t, s.Runway.Months.Equal(decimal.NewFromInt(12)))

	// The rounded monthly average drifts off the whole month.
	viaAverage := FinancialRunway(s.ProfitLoss, s.AverageMonthlyExpense)
	assert.False(t, viaAverage.Months.Equal(decimal.NewFromInt(12)))
}

func TestRunwayNegative(t *testing.T) {
	r := FinancialRunway(decimal.NewFromInt(-120), decimal.NewFromInt(60))
	assert.Equal(t, RunwayFinite, r.State)
	assert.Equal(t, -1, r.Sign)
	assert.Equal(t, "-2", r.Months.String())
}

func TestRunwayWithoutExpenses(t *testing.T) {
	up := Summarize(CategoryTotals{}, totals(map[string]int64{"Sales": 10}))
	assert.Equal(t, RunwayUnbounded, up.Runway.State)
	assert.True(t, math.IsInf(up.Runway.Float64(), 1))

	none := Summarize(CategoryTotals{}, CategoryTotals{})
	assert.Equal(t, RunwayUndefined, none.Runway.State)
	assert.True(t, math.IsNaN(none.Runway.Float64()))
	assert.True(t, none.ProfitLoss.IsZero())
}

func TestRunwayJSON(t *testing.T) {
	b, err := json.Marshal(FinancialRunway(decimal.NewFromInt(100), decimal.NewFromInt(30)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"finite","months":3.33,"sign":1}`, string(b))

	b, err = json.Marshal(FinancialRunway(decimal.NewFromInt(-5), decimal.Zero))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"unbounded","months":null,"sign":-1}`, string(b))
}

func TestNewProjectFinancials(t *testing.T) {
	p := Project{ID: "d1", ProjectID: "AP-1", FinancialMetrics: FinancialMetrics{Budget: decimal.NewFromInt(1000)}}
	f := NewProjectFinancials(p, decimal.NewFromInt(400), decimal.NewFromInt(1500))

	assert.Equal(t, "AP-1", f.ProjectKey)
	assert.Equal(t, "1100", f.Net.String())
	assert.Equal(t, "500", f.BudgetVariance.String())
	assert.Equal(t, "600", f.BudgetRemaining.String())
}
