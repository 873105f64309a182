//go:build integration

package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"admindash/internal/core"
	"admindash/internal/store"
)

// Integration tests need the Firestore emulator.
// Run with: FIRESTORE_EMULATOR_HOST=localhost:8080 go test -tags=integration ./internal/store/firestore

func TestIntegration_FirestoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, Options{ProjectID: "admindash-test"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer s.Close()

	ref := "IT-" + time.Now().Format("150405.000")

	updates := make(chan int, 8)
	sub, err := s.Subscribe(ctx, store.Earnings, []store.Filter{store.Eq("referenceId", ref)}, func(docs []store.Document) {
		updates <- len(docs)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	id, err := s.Create(ctx, store.Earnings, map[string]any{
		"referenceId": ref,
		"category":    core.ProjectRevenueCategory,
		"amount":      125.0,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deadline := time.After(10 * time.Second)
	for seen := false; !seen; {
		select {
		case n := <-updates:
			seen = n == 1
		case <-deadline:
			t.Fatal("listener did not observe the new earning")
		}
	}

	docs, err := s.Fetch(ctx, store.Earnings, store.Eq("referenceId", ref))
	if err != nil || len(docs) != 1 {
		t.Fatalf("Fetch: docs=%v err=%v", docs, err)
	}

	if err := s.Delete(ctx, store.Earnings, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, store.Earnings, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
