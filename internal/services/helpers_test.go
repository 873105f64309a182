package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/store"
	"admindash/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// flakySource counts reads and fails them while err is set.
type flakySource struct {
	*memory.Store
	fetches atomic.Int32
	err     atomic.Pointer[error]
}

func (f *flakySource) Fetch(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	f.fetches.Add(1)
	if p := f.err.Load(); p != nil {
		return nil, *p
	}
	return f.Store.Fetch(ctx, collection, filters...)
}

func (f *flakySource) fail(err error) { f.err.Store(&err) }
func (f *flakySource) recover()       { f.err.Store(nil) }

var errBackend = errors.New("backend unavailable")

func seed(t *testing.T, s *memory.Store, collection, id string, fields map[string]any) {
	t.Helper()
	if err := s.Replace(context.Background(), collection, id, fields); err != nil {
		t.Fatalf("seed %s/%s: %v", collection, id, err)
	}
}

func newFetcher(src records.Source) *records.Fetcher {
	return records.New(src, 0)
}

// fixedRand returns n on every call.
func fixedRand(n int) RandIntN {
	return func(int) int { return n }
}
