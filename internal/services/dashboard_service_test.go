package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"admindash/internal/cache"
	"admindash/internal/core"
	"admindash/internal/store"
	"admindash/internal/store/memory"
	"admindash/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboard(t *testing.T) (*DashboardService, *flakySource) {
	t.Helper()
	mem := memory.New()
	seed(t, mem, store.Expenses, "e1", map[string]any{"category": "Rent", "amount": 1200, "accountId": "A1", "date": "2024-01-05"})
	seed(t, mem, store.Expenses, "e2", map[string]any{"category": "Travel", "amount": 300, "accountId": "A2", "date": "2024-02-01"})
	seed(t, mem, store.Earnings, "r1", map[string]any{"category": "Sales", "amount": 2400, "accountId": "A1", "date": "2024-01-20"})

	src := &flakySource{Store: mem}
	c := cache.NewLocal[Dataset](cache.NewLRUCache[Dataset](1, time.Minute))
	return NewDashboardService(newFetcher(src), c, testLogger()), src
}

func TestDashboardService_ViewLoadsOnFirstUse(t *testing.T) {
	ctx := context.Background()
	svc, src := newDashboard(t)

	d, st, err := svc.View(ctx, view.NewState(), false)
	require.NoError(t, err)
	assert.True(t, st.Loaded)
	assert.Equal(t, view.CardExpenses, st.Card)
	assert.Equal(t, "1500", d.Summary.TotalExpenses.String())
	assert.Equal(t, "2400", d.Summary.TotalEarnings.String())
	assert.Equal(t, []string{"A1", "A2"}, d.AccountIDs)
	assert.EqualValues(t, 2, src.fetches.Load())

	// A loaded session reuses the cached dataset.
	_, _, err = svc.View(ctx, st, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.fetches.Load())

	_, _, err = svc.View(ctx, st, true)
	require.NoError(t, err)
	assert.EqualValues(t, 4, src.fetches.Load())
}

func TestDashboardService_AccountFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDashboard(t)

	st := view.NewState().MarkLoaded().SetAccount("A1")
	d, _, err := svc.View(ctx, st, false)
	require.NoError(t, err)
	assert.Equal(t, "1200", d.Summary.TotalExpenses.String())
	assert.Equal(t, "1200", d.Summary.ProfitLoss.String())
}

func TestDashboardService_RetrievalErrorKeepsCache(t *testing.T) {
	ctx := context.Background()
	svc, src := newDashboard(t)

	first, err := svc.Load(ctx)
	require.NoError(t, err)

	src.fail(errBackend)
	_, err = svc.Load(ctx)
	require.Error(t, err)
	assert.True(t, core.IsRetrievalError(err))

	cached, err := svc.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.LoadedAt, cached.LoadedAt)

	st := view.NewState().MarkLoaded()
	_, kept, err := svc.View(ctx, st, true)
	require.Error(t, err)
	assert.Equal(t, st, kept)
}

func TestDashboardService_InvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	svc, src := newDashboard(t)

	_, err := svc.Dataset(ctx)
	require.NoError(t, err)
	svc.Invalidate(ctx)
	_, err = svc.Dataset(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, src.fetches.Load())
}

func TestDashboardService_ConcurrentViews(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDashboard(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.View(ctx, view.NewState(), false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
