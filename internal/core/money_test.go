package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceDecimal(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{12.5, "12.5"},
		{int64(7), "7"},
		{json.Number("3.25"), "3.25"},
		{" 300 ", "300"},
		{"1,200", "0"},
		{math.NaN(), "0"},
		{true, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceDecimal(tc.in).String(), "%#v", tc.in)
	}
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "", CoerceString(nil))
	assert.Equal(t, "A1", CoerceString("A1"))
	assert.Equal(t, "42", CoerceString(json.Number("42")))
	assert.Equal(t, "42", CoerceString(42.0))
	assert.Equal(t, "", CoerceString([]string{"x"}))
}

func TestCoerceTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), CoerceTime("2024-05-01"))
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), CoerceTime("2024-05-01T08:30:00Z"))
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), CoerceTime(json.Number("1700000000")))
	assert.True(t, CoerceTime("garbage").IsZero())
	assert.Equal(t, NewDate(2024, 5, 1), CoerceDate("2024-05-01T23:59:00Z"))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(decimal.RequireFromString("10.50"))
	assert.NoError(t, err)
	assert.Equal(t, "10.5", string(b))
}
