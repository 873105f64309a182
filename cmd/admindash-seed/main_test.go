package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"admindash/internal/log"
	"admindash/internal/store"
	"admindash/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedReplacesByID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clients.json"),
		[]byte(`[{"id":"c1","clientId":"CL-1","name":"Acme"},{"id":"c2","clientId":"CL-2","name":"Globex"}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.json"),
		[]byte(`[{"id":"e1","category":"Rent","amount":300}]`), 0o600))

	ctx := context.Background()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	mem := memory.New()

	n, err := seed(ctx, mem, dir, logger)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = seed(ctx, mem, dir, logger)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	clients, err := mem.Fetch(ctx, store.Clients)
	require.NoError(t, err)
	assert.Len(t, clients, 2, "a second run replaces instead of duplicating")

	doc, err := mem.Get(ctx, store.Expenses, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Rent", doc.Fields["category"])
}

func TestSeedRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roles.json"), []byte(`{"not":"a list"}`), 0o600))

	_, err := seed(context.Background(), memory.New(), dir,
		log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)}))
	assert.Error(t, err)
}
