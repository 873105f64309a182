// Package store defines the document-store ports used by the record fetcher
// and the write paths, plus helpers shared by the in-process adapters.
package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Collections of the dashboard document store.
const (
	Expenses  = "expenses"
	Earnings  = "earnings"
	Employees = "employees"
	Projects  = "projects"
	Clients   = "clients"
	Accounts  = "accounts"
	Roles     = "roles"
)

// AllCollections lists every collection the service reads or writes.
var AllCollections = []string{Expenses, Earnings, Employees, Projects, Clients, Accounts, Roles}

type (
	// Document is one stored record with loosely typed fields. ID is the
	// store-assigned document id and is never part of Fields.
	Document struct {
		ID     string
		Fields map[string]any
	}

	// Filter is an equality condition on a top-level field.
	Filter struct {
		Field string
		Value any
	}

	Subscription interface {
		// Unsubscribe releases the subscription. No callback runs after it
		// returns. It is safe to call more than once.
		Unsubscribe()
	}
)

// Ports for outbound adapters.
type (
	Fetcher interface {
		// Fetch returns every document of collection matching all filters, in
		// no particular order.
		Fetch(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	}

	Getter interface {
		// Get returns the document or an error wrapping core.ErrNotFound.
		Get(ctx context.Context, collection, id string) (Document, error)
	}

	Writer interface {
		// Create stores a new document and returns its generated id.
		Create(ctx context.Context, collection string, fields map[string]any) (string, error)
		// Replace overwrites the whole document, creating it when absent.
		Replace(ctx context.Context, collection, id string, fields map[string]any) error
		// Delete removes the document or returns an error wrapping core.ErrNotFound.
		Delete(ctx context.Context, collection, id string) error
	}

	Subscriber interface {
		// Subscribe delivers the matching documents now and again after every
		// change to them, until the subscription is released or ctx ends.
		Subscribe(ctx context.Context, collection string, filters []Filter, fn func([]Document)) (Subscription, error)
	}

	Store interface {
		Fetcher
		Getter
		Writer
		Subscriber
		Close() error
	}
)

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Matches reports whether fields satisfy every filter. Numbers compare by value
// whatever their Go representation.
func Matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || !equal(v, f.Value) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if an, ok := number(a); ok {
		bn, ok := number(b)
		return ok && an.Equal(bn)
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	return false
}

func number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// Clone deep-copies a field map so adapters never share mutable state with
// their callers.
func Clone(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// ValidCollection reports whether name is one of the known collections.
func ValidCollection(name string) bool {
	name = strings.TrimSpace(name)
	for _, c := range AllCollections {
		if c == name {
			return true
		}
	}
	return false
}
