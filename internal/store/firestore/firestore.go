// Package firestore adapts Google Cloud Firestore to the store ports. Change
// subscriptions use Firestore's native query snapshots.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"admindash/internal/core"
	"admindash/internal/store"

	gfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	goption "google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	client *gfirestore.Client
}

// Options configures the Firestore client. CredentialsJSON wins over
// CredentialsFile; with neither, Application Default Credentials are used.
type Options struct {
	ProjectID       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, errors.New("missing firestore project id")
	}

	var clientOpts []goption.ClientOption
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, goption.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		raw, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		clientOpts = append(clientOpts, goption.WithCredentialsJSON(raw))
	default:
		slog.InfoContext(ctx, "No explicit Firestore credentials, using application default credentials")
	}

	client, err := gfirestore.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) query(collection string, filters []store.Filter) gfirestore.Query {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	return q
}

func (s *Store) Fetch(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	snaps, err := s.query(collection, filters).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return toDocuments(snaps), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, core.ErrNotFound)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return store.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, withoutID(fields)); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("replace %s: empty document id", collection)
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, withoutID(fields)); err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, gfirestore.Exists)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("delete %s/%s: %w", collection, id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Subscribe listens to query snapshots in a goroutine. Unsubscribe cancels the
// listener and waits for it to exit.
func (s *Store) Subscribe(ctx context.Context, collection string, filters []store.Filter, fn func([]store.Document)) (store.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	it := s.query(collection, filters).Snapshots(ctx)

	go func() {
		defer close(sub.done)
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled && !errors.Is(err, iterator.Done) {
					slog.ErrorContext(ctx, "Firestore listener stopped", "collection", collection, "error", err)
				}
				return
			}
			snaps, err := qs.Documents.GetAll()
			if err != nil {
				slog.WarnContext(ctx, "Read snapshot documents", "collection", collection, "error", err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			fn(toDocuments(snaps))
		}
	}()
	return sub, nil
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func toDocuments(snaps []*gfirestore.DocumentSnapshot) []store.Document {
	out := make([]store.Document, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		out = append(out, store.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return out
}

func withoutID(fields map[string]any) map[string]any {
	c := store.Clone(fields)
	delete(c, "id")
	return c
}
