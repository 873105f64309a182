package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{"2025-01-31", "2025-01-31", false},
		{"2025-03-04T10:11:12Z", "2025-03-04", false},
		{"  ", "", false},
		{"31/01/2025", "", true},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d.String())
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
		E Date `json:"e"`
	}{D: NewDate(2024, 2, 29)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-02-29","e":""}`, string(b))

	var got struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-06-01"}`), &got))
	assert.Equal(t, NewDate(2024, 6, 1), got.D)
}

func TestProjectKeyFallsBackToDocumentID(t *testing.T) {
	assert.Equal(t, "AP-12", Project{ID: "doc1", ProjectID: "AP-12"}.Key())
	assert.Equal(t, "doc1", Project{ID: "doc1", ProjectID: " "}.Key())
}

func TestTransactionKindCollection(t *testing.T) {
	assert.Equal(t, "expenses", Expense.Collection())
	assert.Equal(t, "earnings", Earning.Collection())
	assert.Equal(t, "Earning", Earning.Label())
}

func TestEmployeeValidate(t *testing.T) {
	good := Employee{
		Name:        "Alice",
		Email:       "alice@example.com",
		Department:  "Engineering",
		Status:      "Active",
		JoiningDate: NewDate(2023, 1, 10),
		Salary:      decimal.NewFromInt(5000),
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.Name = ""
	bad.Email = "not-an-email"
	bad.Department = "Legal"
	bad.Salary = decimal.NewFromInt(-1)
	bad.ExitDate = NewDate(2022, 12, 31)

	err := bad.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"name", "email", "department", "salary", "exitDate"} {
		assert.Contains(t, ve.Fields, field)
	}
}

func TestProjectValidate(t *testing.T) {
	p := Project{Name: "Apollo", AccountID: "A1", ClientID: "C1", Status: "Ongoing", Completion: 40}
	require.NoError(t, p.Validate())

	p.ClientID = ""
	p.Completion = 140
	p.Status = "Paused"
	p.FinancialMetrics.Budget = decimal.NewFromInt(-5)

	var ve *ValidationError
	require.ErrorAs(t, p.Validate(), &ve)
	assert.Equal(t, "is required", ve.Fields["clientId"])
	assert.Contains(t, ve.Fields, "completion")
	assert.Contains(t, ve.Fields, "status")
	assert.Contains(t, ve.Fields, "financialMetrics.budget")
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	ve := NewValidationError()
	ve.Add("b", "second")
	ve.Add("a", "first")
	ve.Add("a", "ignored")
	assert.Equal(t, "validation failed: a: first; b: second", ve.Error())
	assert.True(t, IsValidationError(ve.OrNil()))
	assert.Nil(t, NewValidationError().OrNil())
}
