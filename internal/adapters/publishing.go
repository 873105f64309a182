package adapters

import (
	"context"
	"log/slog"

	"admindash/internal/amqp"
	"admindash/internal/store"
)

// Publisher sends change notifications. *amqp.Client implements it.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// PublishingStore decorates a store so every successful write is announced.
// A failed publish is logged and does not fail the write: the document is
// already stored.
type PublishingStore struct {
	store.Store
	publisher Publisher
}

var _ store.Store = (*PublishingStore)(nil)

func NewPublishingStore(s store.Store, p Publisher) *PublishingStore {
	return &PublishingStore{Store: s, publisher: p}
}

func (s *PublishingStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id, err := s.Store.Create(ctx, collection, fields)
	if err != nil {
		return "", err
	}
	s.publish(ctx, collection, id, amqp.OpCreate)
	return id, nil
}

func (s *PublishingStore) Replace(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := s.Store.Replace(ctx, collection, id, fields); err != nil {
		return err
	}
	s.publish(ctx, collection, id, amqp.OpReplace)
	return nil
}

func (s *PublishingStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.Store.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.publish(ctx, collection, id, amqp.OpDelete)
	return nil
}

func (s *PublishingStore) publish(ctx context.Context, collection, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, amqp.NewChangeMessage(collection, id, op)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"collection", collection, "id", id, "op", op, "error", err)
	}
}

// Ping forwards to the wrapped store when it can report connectivity.
func (s *PublishingStore) Ping(ctx context.Context) error {
	if p, ok := s.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
