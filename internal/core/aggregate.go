package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"value"`
}

// CategoryTotals maps a category name to the summed amount of its transactions.
type CategoryTotals map[string]decimal.Decimal

// Match selects the transactions that take part in an aggregation.
type Match func(Transaction) bool

// ByAccount keeps transactions of one account. An empty id keeps everything.
func ByAccount(accountID string) Match {
	return func(t Transaction) bool {
		return accountID == "" || t.AccountID == accountID
	}
}

// ByProject keeps expenses attributed to a project through projectId.
func ByProject(projectKey string) Match {
	return func(t Transaction) bool {
		return t.ProjectID == projectKey
	}
}

// ByProjectRevenue keeps earnings booked as project revenue for a project.
func ByProjectRevenue(projectKey string) Match {
	return func(t Transaction) bool {
		return t.Category == ProjectRevenueCategory && t.ReferenceID == projectKey
	}
}

// AggregateByCategory sums amounts per category, skipping transactions that do
// not belong to accountID when it is set. Duplicates are summed.
func AggregateByCategory(txs []Transaction, accountID string) CategoryTotals {
	return Aggregate(txs, ByAccount(accountID))
}

// Aggregate sums amounts per category over the transactions accepted by every
// matcher. Empty input yields an empty, non-nil map.
func Aggregate(txs []Transaction, matchers ...Match) CategoryTotals {
	out := CategoryTotals{}
	for _, t := range txs {
		if !matchesAll(t, matchers) {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// Filter returns the transactions accepted by every matcher, in input order.
func Filter(txs []Transaction, matchers ...Match) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if matchesAll(t, matchers) {
			out = append(out, t)
		}
	}
	return out
}

func matchesAll(t Transaction, matchers []Match) bool {
	for _, m := range matchers {
		if m != nil && !m(t) {
			return false
		}
	}
	return true
}

// Sum adds up every category.
func (c CategoryTotals) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range c {
		total = total.Add(v)
	}
	return total
}

// Has reports whether the category has been aggregated.
func (c CategoryTotals) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Sorted lists the categories by name.
func (c CategoryTotals) Sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(c))
	for name, amount := range c {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
