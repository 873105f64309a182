// Package sqlite stores documents as JSON rows in an embedded SQLite database.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"admindash/internal/core"
	"admindash/internal/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Field names are interpolated into a JSON path, so only plain identifiers
// are pushed down to SQL.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Store struct {
	db  *sql.DB
	hub *store.Hub
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{db: db}
	s.hub = store.NewHub(s.Fetch)
	return s, nil
}

func (s *Store) Close() error {
	s.hub.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Fetch pushes string equality filters down to json_extract and re-checks
// every filter in Go, so numeric filters behave like the other adapters.
func (s *Store) Fetch(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	var (
		query strings.Builder
		args  = []any{collection}
	)
	query.WriteString("SELECT id, data FROM documents WHERE collection = ?")
	for _, f := range filters {
		v, ok := f.Value.(string)
		if !ok || !fieldName.MatchString(f.Field) {
			continue
		}
		query.WriteString(" AND json_extract(data, ?) = ?")
		args = append(args, "$."+f.Field, v)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []store.Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		fields, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		if store.Matches(fields, filters) {
			out = append(out, store.Document{ID: id, Fields: fields})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, core.ErrNotFound)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	fields, err := decode(data)
	if err != nil {
		return store.Document{}, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return store.Document{ID: id, Fields: fields}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.upsert(ctx, collection, id, fields); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	slog.DebugContext(ctx, "Document created in SQLite", "collection", collection, "id", id)
	s.hub.Notify(ctx, collection)
	return id, nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("replace %s: empty document id", collection)
	}
	if err := s.upsert(ctx, collection, id, fields); err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	s.hub.Notify(ctx, collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, core.ErrNotFound)
	}
	s.hub.Notify(ctx, collection)
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, filters []store.Filter, fn func([]store.Document)) (store.Subscription, error) {
	return s.hub.Watch(ctx, collection, filters, fn)
}

// Ping checks the database connection; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) upsert(ctx context.Context, collection, id string, fields map[string]any) error {
	c := store.Clone(fields)
	delete(c, "id")
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(data), now, now)
	return err
}

func decode(data string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
