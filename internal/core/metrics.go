package core

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// MonthsPerYear is the fixed divisor for the average monthly expense. It is
// not calendar-aware.
var MonthsPerYear = decimal.NewFromInt(12)

const (
	RunwayFinite    RunwayState = "finite"
	RunwayUnbounded RunwayState = "unbounded"
	RunwayUndefined RunwayState = "undefined"
)

type RunwayState string

// Runway is profit/loss expressed in months of average expense.
//
// With no expenses the ratio has no finite value: a non-zero profit/loss gives
// an unbounded runway carrying its sign, and a zero profit/loss gives an
// undefined one. Months is only meaningful when State is RunwayFinite.
type Runway struct {
	State  RunwayState
	Months decimal.Decimal
	Sign   int
}

// Summary holds the derived metrics of one filtered dashboard view.
type Summary struct {
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TotalEarnings         decimal.Decimal `json:"totalEarnings"`
	ProfitLoss            decimal.Decimal `json:"profitLoss"`
	AverageMonthlyExpense decimal.Decimal `json:"averageMonthlyExpense"`
	Runway                Runway          `json:"financialRunway"`
}

// ProjectFinancials are recomputed from transactions each time a project is
// viewed; none of these values are stored on the project.
type ProjectFinancials struct {
	ProjectKey      string          `json:"projectKey"`
	Budget          decimal.Decimal `json:"budget"`
	Expenses        decimal.Decimal `json:"expenses"`
	Revenue         decimal.Decimal `json:"revenue"`
	Net             decimal.Decimal `json:"net"`
	BudgetVariance  decimal.Decimal `json:"revenueMinusBudget"`
	BudgetRemaining decimal.Decimal `json:"budgetRemaining"`
}

// ProfitLoss is earnings minus expenses.
func ProfitLoss(totalEarnings, totalExpenses decimal.Decimal) decimal.Decimal {
	return totalEarnings.Sub(totalExpenses)
}

// AverageMonthlyExpense spreads the total over a fixed twelve months.
func AverageMonthlyExpense(totalExpenses decimal.Decimal) decimal.Decimal {
	return totalExpenses.Div(MonthsPerYear)
}

// FinancialRunway divides profit/loss by the average monthly expense.
func FinancialRunway(profitLoss, avgMonthlyExpense decimal.Decimal) Runway {
	if avgMonthlyExpense.IsZero() {
		return nonFiniteRunway(profitLoss)
	}
	return finiteRunway(profitLoss.Div(avgMonthlyExpense))
}

// RunwayFromTotals is FinancialRunway over the yearly expense total. It
// divides once, so a runway of whole months comes out exact instead of
// carrying the rounding of the monthly average.
func RunwayFromTotals(profitLoss, totalExpenses decimal.Decimal) Runway {
	if totalExpenses.IsZero() {
		return nonFiniteRunway(profitLoss)
	}
	return finiteRunway(profitLoss.Mul(MonthsPerYear).Div(totalExpenses))
}

func finiteRunway(months decimal.Decimal) Runway {
	return Runway{State: RunwayFinite, Months: months, Sign: months.Sign()}
}

func nonFiniteRunway(profitLoss decimal.Decimal) Runway {
	if profitLoss.IsZero() {
		return Runway{State: RunwayUndefined}
	}
	return Runway{State: RunwayUnbounded, Sign: profitLoss.Sign()}
}

// Summarize derives the dashboard metrics from already filtered aggregates.
func Summarize(expenses, earnings CategoryTotals) Summary {
	totalExpenses := expenses.Sum()
	totalEarnings := earnings.Sum()
	pl := ProfitLoss(totalEarnings, totalExpenses)
	avg := AverageMonthlyExpense(totalExpenses)
	return Summary{
		TotalExpenses:         totalExpenses,
		TotalEarnings:         totalEarnings,
		ProfitLoss:            pl,
		AverageMonthlyExpense: avg,
		Runway:                RunwayFromTotals(pl, totalExpenses),
	}
}

// ProjectExpenses sums the expenses attributed to a project.
func ProjectExpenses(expenses []Transaction, projectKey string) decimal.Decimal {
	return Aggregate(expenses, ByProject(projectKey)).Sum()
}

// ProjectRevenue sums the "Project Revenue" earnings referencing a project.
func ProjectRevenue(earnings []Transaction, projectKey string) decimal.Decimal {
	return Aggregate(earnings, ByProjectRevenue(projectKey)).Sum()
}

// NewProjectFinancials combines a project's budget with its computed totals.
func NewProjectFinancials(p Project, expenses, revenue decimal.Decimal) ProjectFinancials {
	budget := p.FinancialMetrics.Budget
	return ProjectFinancials{
		ProjectKey:      p.Key(),
		Budget:          budget,
		Expenses:        expenses,
		Revenue:         revenue,
		Net:             revenue.Sub(expenses),
		BudgetVariance:  revenue.Sub(budget),
		BudgetRemaining: budget.Sub(expenses),
	}
}

// IsFinite reports whether Months holds a value.
func (r Runway) IsFinite() bool {
	return r.State == RunwayFinite
}

// Float64 returns the runway as a float: ±Inf when unbounded, NaN when undefined.
func (r Runway) Float64() float64 {
	switch r.State {
	case RunwayFinite:
		return r.Months.InexactFloat64()
	case RunwayUnbounded:
		return math.Inf(r.Sign)
	default:
		return math.NaN()
	}
}

func (r Runway) MarshalJSON() ([]byte, error) {
	out := struct {
		State  RunwayState      `json:"state"`
		Months *decimal.Decimal `json:"months"`
		Sign   int              `json:"sign"`
	}{State: r.State, Sign: r.Sign}
	if r.IsFinite() {
		m := r.Months.Round(2)
		out.Months = &m
	}
	return json.Marshal(out)
}
