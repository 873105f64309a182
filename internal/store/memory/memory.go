package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"admindash/internal/core"
	"admindash/internal/store"

	"github.com/google/uuid"
)

// Store keeps collections in process. Documents are copied on the way in and
// on the way out.
type Store struct {
	mu    sync.RWMutex
	colls map[string]map[string]map[string]any
	hub   *store.Hub
}

func New() *Store {
	s := &Store{colls: map[string]map[string]map[string]any{}}
	s.hub = store.NewHub(s.Fetch)
	return s
}

// NewFromFiles seeds the store from <base>/<collection>.json files. Missing
// files leave the collection empty.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	for _, c := range store.AllCollections {
		docs, err := ReadSeedFile(filepath.Join(base, c+".json"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", c, err)
		}
		for _, d := range docs {
			s.put(c, d.ID, d.Fields)
		}
	}
	return s, nil
}

// ReadSeedFile parses a JSON array of objects. An "id" member becomes the
// document id; objects without one get a generated id.
func ReadSeedFile(path string) ([]store.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	docs := make([]store.Document, 0, len(items))
	for _, item := range items {
		id, _ := item["id"].(string)
		delete(item, "id")
		if id == "" {
			id = uuid.NewString()
		}
		docs = append(docs, store.Document{ID: id, Fields: item})
	}
	return docs, nil
}

func (s *Store) Fetch(_ context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Document, 0, len(s.colls[collection]))
	for id, fields := range s.colls[collection] {
		if store.Matches(fields, filters) {
			out = append(out, store.Document{ID: id, Fields: store.Clone(fields)})
		}
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, collection, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.colls[collection][id]
	if !ok {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, core.ErrNotFound)
	}
	return store.Document{ID: id, Fields: store.Clone(fields)}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	s.put(collection, id, fields)
	s.hub.Notify(ctx, collection)
	return id, nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("replace %s: empty document id", collection)
	}
	s.put(collection, id, fields)
	s.hub.Notify(ctx, collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	_, ok := s.colls[collection][id]
	delete(s.colls[collection], id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("delete %s/%s: %w", collection, id, core.ErrNotFound)
	}
	s.hub.Notify(ctx, collection)
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, filters []store.Filter, fn func([]store.Document)) (store.Subscription, error) {
	return s.hub.Watch(ctx, collection, filters, fn)
}

// Watchers reports how many subscriptions are live.
func (s *Store) Watchers() int {
	return s.hub.Len()
}

func (s *Store) Close() error {
	s.hub.Close()
	return nil
}

func (s *Store) put(collection, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.colls[collection] == nil {
		s.colls[collection] = map[string]map[string]any{}
	}
	c := store.Clone(fields)
	delete(c, "id")
	s.colls[collection][id] = c
}
