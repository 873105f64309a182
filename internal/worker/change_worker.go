package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"admindash/internal/amqp"
	"admindash/internal/cache"
	"admindash/internal/log"
	"admindash/internal/services"
	"admindash/internal/store"
)

// Evicter drops a shared cache entry.
type Evicter interface {
	Delete(ctx context.Context, key string)
}

// LocalDatasetCache holds the worker's own copy of the dashboard dataset when
// no shared cache is configured. Pass it as both the report's cache and the
// Evicter so changes reach the next export.
func LocalDatasetCache(ttl time.Duration) cache.Local[services.Dataset] {
	return cache.NewLocal[services.Dataset](cache.NewLRUCache[services.Dataset](1, ttl))
}

// Exporter rewrites the spreadsheet report.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// ChangeWorker reacts to document change messages. Transaction changes evict
// the shared dashboard dataset. Changes that affect the report mark it stale;
// stale reports are re-exported on the next flush.
type ChangeWorker struct {
	cache   Evicter
	reports Exporter
	logger  *log.Logger

	stale   atomic.Bool
	handled atomic.Int64
}

// NewChangeWorker accepts a nil exporter, which disables report refreshes.
func NewChangeWorker(cache Evicter, reports Exporter, logger *log.Logger) *ChangeWorker {
	return &ChangeWorker{
		cache:   cache,
		reports: reports,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange processes a single change message from AMQP.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.DebugContext(ctx, "Processing change message",
		log.FieldCollection, msg.Collection,
		log.FieldDocumentID, msg.ID,
		"op", msg.Op)

	switch msg.Collection {
	case store.Expenses, store.Earnings:
		w.cache.Delete(ctx, services.DatasetKey)
		w.stale.Store(true)
		w.logger.InfoContext(ctx, "Dashboard dataset evicted",
			log.FieldCollection, msg.Collection,
			log.FieldOperation, log.OpEvict)
	case store.Projects:
		w.stale.Store(true)
	}
	w.handled.Add(1)
	return nil
}

// Handled reports how many messages were processed.
func (w *ChangeWorker) Handled() int64 {
	return w.handled.Load()
}

// FlushReport exports the report when a change has made it stale. A failed
// export leaves it stale so the next flush retries.
func (w *ChangeWorker) FlushReport(ctx context.Context) error {
	if w.reports == nil || !w.stale.Swap(false) {
		return nil
	}
	ref, err := w.reports.Export(ctx)
	if err != nil {
		w.stale.Store(true)
		return fmt.Errorf("refresh report: %w", err)
	}
	w.logger.InfoContext(ctx, "Report refreshed", log.FieldSheetsRange, ref)
	return nil
}

// RunReportRefresh flushes the report every interval until ctx is done.
func (w *ChangeWorker) RunReportRefresh(ctx context.Context, interval time.Duration) {
	if w.reports == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.FlushReport(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic report refresh failed", log.FieldError, err)
			}
		}
	}
}
