// Package core provides the dashboard's domain types and the aggregation and
// derived-metric arithmetic over them.
//
// This file contains the coercion rules used when decoding loosely typed
// documents: numeric fields that are absent or non-numeric become zero, string
// fields that are absent become "", timestamps that cannot be read become the
// zero time.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Chart and table consumers expect numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CoerceDecimal converts a document value to a decimal, defaulting to zero.
//
// Examples:
//
//	CoerceDecimal(12.5)     -> 12.5
//	CoerceDecimal("1,200")  -> 0 (not a number)
//	CoerceDecimal(" 300 ")  -> 300
//	CoerceDecimal(nil)      -> 0
func CoerceDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return CoerceDecimal(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// CoerceInt converts a document value to an int, truncating fractions.
func CoerceInt(v any) int {
	return int(CoerceDecimal(v).IntPart())
}

// CoerceString returns v when it is a string. Numbers are formatted so that
// identifiers stored as numbers still compare equal to their string form.
func CoerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case int, int32, int64:
		return fmt.Sprint(s)
	case float64:
		return decimal.NewFromFloat(s).String()
	default:
		return ""
	}
}

// CoerceStrings reads a list of strings, dropping entries that are not strings.
func CoerceStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// CoerceTime reads a timestamp stored natively, as RFC 3339, as YYYY-MM-DD or
// as Unix seconds.
func CoerceTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if d, err := ParseDate(t); err == nil {
			if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(t)); err == nil {
				return ts
			}
			return d.Time
		}
		return time.Time{}
	case float64, int, int64, json.Number:
		secs := CoerceDecimal(t).IntPart()
		if secs == 0 {
			return time.Time{}
		}
		return time.Unix(secs, 0).UTC()
	default:
		return time.Time{}
	}
}

// CoerceDate reads a calendar day.
func CoerceDate(v any) Date {
	t := CoerceTime(v)
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), int(t.Month()), t.Day())
}
