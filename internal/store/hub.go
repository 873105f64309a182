package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// QueryFunc runs a fetch for the hub. Adapters pass their own Fetch.
type QueryFunc func(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

// Hub serves subscriptions for adapters without native change feeds. Each
// watcher re-runs its query whenever Notify reports a write to its collection.
type Hub struct {
	query QueryFunc

	mu       sync.Mutex
	nextID   int
	watchers map[string]map[int]*watcher
}

type watcher struct {
	hub        *Hub
	id         int
	collection string
	filters    []Filter
	fn         func([]Document)

	// mu serializes deliveries and guards stopped, so Unsubscribe waits for
	// an in-flight callback to finish.
	mu      sync.Mutex
	stopped bool
	once    sync.Once
	done    chan struct{}
}

func NewHub(query QueryFunc) *Hub {
	return &Hub{query: query, watchers: map[string]map[int]*watcher{}}
}

// Watch delivers the current snapshot synchronously, then keeps fn updated.
// The watcher is registered before the snapshot is taken, so a write racing
// with Watch is delivered after the snapshot rather than lost.
// fn must not call Unsubscribe on its own subscription.
func (h *Hub) Watch(ctx context.Context, collection string, filters []Filter, fn func([]Document)) (Subscription, error) {
	w := &watcher{
		hub:        h,
		collection: collection,
		filters:    append([]Filter(nil), filters...),
		fn:         fn,
		done:       make(chan struct{}),
	}
	// Held until the snapshot is delivered; concurrent refreshes queue behind it.
	w.mu.Lock()

	h.mu.Lock()
	h.nextID++
	w.id = h.nextID
	if h.watchers[collection] == nil {
		h.watchers[collection] = map[int]*watcher{}
	}
	h.watchers[collection][w.id] = w
	h.mu.Unlock()

	docs, err := h.query(ctx, collection, filters...)
	if err != nil {
		w.mu.Unlock()
		w.Unsubscribe()
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	w.fn(docs)
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.Unsubscribe()
		case <-w.done:
		}
	}()
	return w, nil
}

// Notify refreshes every watcher of collection. It is called by adapters after
// a successful write and runs the refreshes before returning.
func (h *Hub) Notify(ctx context.Context, collection string) {
	h.mu.Lock()
	ws := make([]*watcher, 0, len(h.watchers[collection]))
	for _, w := range h.watchers[collection] {
		ws = append(ws, w)
	}
	h.mu.Unlock()

	for _, w := range ws {
		docs, err := h.query(context.WithoutCancel(ctx), w.collection, w.filters...)
		if err != nil {
			slog.WarnContext(ctx, "Watch refresh failed", "collection", collection, "error", err)
			continue
		}
		w.deliver(docs)
	}
}

// Len returns the number of live watchers across all collections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, ws := range h.watchers {
		n += len(ws)
	}
	return n
}

// Close releases every watcher.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*watcher
	for _, ws := range h.watchers {
		for _, w := range ws {
			all = append(all, w)
		}
	}
	h.mu.Unlock()
	for _, w := range all {
		w.Unsubscribe()
	}
}

func (w *watcher) deliver(docs []Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.fn(docs)
}

func (w *watcher) Unsubscribe() {
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		w.hub.mu.Lock()
		delete(w.hub.watchers[w.collection], w.id)
		if len(w.hub.watchers[w.collection]) == 0 {
			delete(w.hub.watchers, w.collection)
		}
		w.hub.mu.Unlock()
		close(w.done)
	})
}
