package services

import (
	"context"
	"testing"

	"admindash/internal/core"
	"admindash/internal/store"
	"admindash/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *memory.Store) {
	t.Helper()
	mem := memory.New()
	svc := NewEmployeeService(newFetcher(mem), mem, testLogger())
	svc.Rand = fixedRand(42)
	return svc, mem
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	svc, mem := newEmployeeService(t)

	e, err := svc.Create(ctx, core.Employee{
		Name:       "Alice Smith",
		Email:      "alice@example.com",
		Department: "Engineering",
		Status:     "Active",
		Salary:     decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "ALI-142", e.EmployeeID)

	doc, err := mem.Get(ctx, store.Employees, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "ALI-142", doc.Fields["employeeId"])
	assert.Equal(t, "Engineering", doc.Fields["department"])
	assert.NotContains(t, doc.Fields, "id")
}

func TestEmployeeService_CreateInvalid(t *testing.T) {
	ctx := context.Background()
	svc, mem := newEmployeeService(t)

	_, err := svc.Create(ctx, core.Employee{Email: "not-an-email", Department: "Legal"})
	require.Error(t, err)

	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "department")

	docs, err := mem.Fetch(ctx, store.Employees)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEmployeeService_UpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	svc, mem := newEmployeeService(t)
	seed(t, mem, store.Employees, "emp-1", map[string]any{
		"employeeId": "BOB-321",
		"name":       "Bob",
		"department": "Sales",
		"status":     "Active",
	})

	updated, err := svc.Update(ctx, "emp-1", core.Employee{
		ID:         "something-else",
		EmployeeID: "HACK-1",
		Name:       "Bob Jones",
		Department: "Finance",
		Status:     "On Leave",
	})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", updated.ID)
	assert.Equal(t, "BOB-321", updated.EmployeeID)

	got, err := svc.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", got.Name)
	assert.Equal(t, "Finance", got.Department)
	assert.Equal(t, "BOB-321", got.EmployeeID)

	_, err = mem.Get(ctx, store.Employees, "something-else")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEmployeeService_UpdateMissing(t *testing.T) {
	svc, _ := newEmployeeService(t)

	_, err := svc.Update(context.Background(), "nope", core.Employee{Name: "X"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestEmployeeService_List(t *testing.T) {
	ctx := context.Background()
	svc, mem := newEmployeeService(t)
	seed(t, mem, store.Employees, "1", map[string]any{"name": "Carol"})
	seed(t, mem, store.Employees, "2", map[string]any{"name": "alice"})
	seed(t, mem, store.Employees, "3", map[string]any{"name": "Bob Carlson"})

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	matched, err := svc.List(ctx, "CAR")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Bob Carlson", matched[0].Name)
	assert.Equal(t, "Carol", matched[1].Name)
}
