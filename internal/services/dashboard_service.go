package services

import (
	"context"
	"fmt"
	"time"

	"admindash/internal/cache"
	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/view"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DatasetKey is the cache key of the shared dashboard dataset.
const DatasetKey = "dashboard:dataset"

// Dataset is the snapshot of one load cycle.
type Dataset = view.Dataset

// DashboardService runs load cycles and binds them to a session's selection.
type DashboardService struct {
	records *records.Fetcher
	cache   cache.Store[Dataset]
	flight  singleflight.Group
	logger  *log.Logger
	now     func() time.Time
}

func NewDashboardService(r *records.Fetcher, c cache.Store[Dataset], logger *log.Logger) *DashboardService {
	return &DashboardService{
		records: r,
		cache:   c,
		logger:  logger.WithComponent(log.ComponentDashboard),
		now:     time.Now,
	}
}

// Load fetches expenses and earnings concurrently. Concurrent loads share one
// fetch. On failure the cached dataset is left as it was.
func (s *DashboardService) Load(ctx context.Context) (Dataset, error) {
	v, err, shared := s.flight.Do("load", func() (any, error) {
		// The flight outlives any single caller; the fetch timeout bounds it.
		ctx := context.WithoutCancel(ctx)

		var ds Dataset
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			txs, err := s.records.Transactions(gctx, core.Expense)
			ds.Expenses = txs
			return err
		})
		g.Go(func() error {
			txs, err := s.records.Transactions(gctx, core.Earning)
			ds.Earnings = txs
			return err
		})
		if err := g.Wait(); err != nil {
			return Dataset{}, err
		}
		ds.LoadedAt = s.now().UTC()
		s.cache.Set(ctx, DatasetKey, ds)
		return ds, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Dashboard load failed", log.FieldError, err, log.FieldOperation, log.OpFetch)
		return Dataset{}, fmt.Errorf("load dashboard: %w", err)
	}
	ds := v.(Dataset)
	s.logger.DebugContext(ctx, "Dashboard loaded",
		"expenses", len(ds.Expenses),
		"earnings", len(ds.Earnings),
		"shared", shared)
	return ds, nil
}

// Dataset returns the cached snapshot, loading one on a miss.
func (s *DashboardService) Dataset(ctx context.Context) (Dataset, error) {
	if ds, ok := s.cache.Get(ctx, DatasetKey); ok {
		return ds, nil
	}
	return s.Load(ctx)
}

// Invalidate drops the cached snapshot.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, DatasetKey)
}

// View binds the session state to data. A session that has never loaded, or
// an explicit refresh, starts a new load cycle. The returned state is the one
// to store; on error the caller keeps its previous state.
func (s *DashboardService) View(ctx context.Context, st view.State, refresh bool) (view.Dashboard, view.State, error) {
	var (
		ds  Dataset
		err error
	)
	if refresh || !st.Loaded {
		ds, err = s.Load(ctx)
	} else {
		ds, err = s.Dataset(ctx)
	}
	if err != nil {
		return view.Dashboard{}, st, err
	}
	st = st.MarkLoaded()
	return view.Bind(st, ds), st, nil
}
