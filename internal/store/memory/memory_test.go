package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"admindash/internal/core"
	"admindash/internal/store"
)

func TestMemoryStoreCreateFetchDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Create(ctx, store.Projects, map[string]any{"name": "Apollo", "projectId": "A-1"})
	if err != nil || id == "" {
		t.Fatalf("unexpected create: id=%q err=%v", id, err)
	}
	if _, err := s.Create(ctx, store.Projects, map[string]any{"name": "Boreas", "projectId": "B-2"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	docs, err := s.Fetch(ctx, store.Projects, store.Eq("projectId", "A-1"))
	if err != nil || len(docs) != 1 || docs[0].ID != id {
		t.Fatalf("unexpected fetch: %+v err=%v", docs, err)
	}

	// Mutating a returned document must not leak into the store.
	docs[0].Fields["name"] = "changed"
	got, err := s.Get(ctx, store.Projects, id)
	if err != nil || got.Fields["name"] != "Apollo" {
		t.Fatalf("store was mutated through a fetched document: %+v", got)
	}

	if err := s.Delete(ctx, store.Projects, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, store.Projects, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Delete(ctx, store.Projects, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMemoryStoreReplaceIsWholeDocument(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Replace(ctx, store.Employees, "e1", map[string]any{"name": "Ann", "phone": "123"}); err != nil {
		t.Fatalf("replace (create): %v", err)
	}
	if err := s.Replace(ctx, store.Employees, "e1", map[string]any{"name": "Ann B"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ := s.Get(ctx, store.Employees, "e1")
	if got.Fields["name"] != "Ann B" {
		t.Fatalf("name not replaced: %+v", got.Fields)
	}
	if _, ok := got.Fields["phone"]; ok {
		t.Fatalf("replace kept a field that was not submitted: %+v", got.Fields)
	}
}

func TestMemoryStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New()

	var calls []int
	sub, err := s.Subscribe(ctx, store.Earnings, []store.Filter{store.Eq("referenceId", "A-1")}, func(docs []store.Document) {
		calls = append(calls, len(docs))
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := s.Create(ctx, store.Earnings, map[string]any{"referenceId": "A-1", "amount": 5}); err != nil {
		t.Fatalf("create: %v", err)
	}
	sub.Unsubscribe()
	if _, err := s.Create(ctx, store.Earnings, map[string]any{"referenceId": "A-1", "amount": 6}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(calls) != 2 || calls[0] != 0 || calls[1] != 1 {
		t.Fatalf("unexpected deliveries: %v", calls)
	}
	if s.Watchers() != 0 {
		t.Fatalf("expected no live watchers, got %d", s.Watchers())
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `[{"id":"x1","category":"Travel","amount":120.5,"accountId":"A1"},{"category":"Office","amount":"30"}]`
	if err := os.WriteFile(filepath.Join(dir, "expenses.json"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFromFiles(dir)
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}
	docs, _ := s.Fetch(context.Background(), store.Expenses)
	if len(docs) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(docs))
	}
	got, err := s.Get(context.Background(), store.Expenses, "x1")
	if err != nil {
		t.Fatalf("get seeded doc: %v", err)
	}
	if _, ok := got.Fields["id"]; ok {
		t.Fatalf("id must not be stored as a field")
	}
	if earnings, _ := s.Fetch(context.Background(), store.Earnings); len(earnings) != 0 {
		t.Fatalf("missing seed file should yield an empty collection")
	}
}

func TestNewFromFilesRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "roles.json"), []byte(`{"not":"an array"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFiles(dir); err == nil {
		t.Fatalf("expected error for malformed seed file")
	}
}
