package adapters

import (
	"context"
	"errors"
	"testing"

	"admindash/internal/amqp"
	"admindash/internal/store"
	"admindash/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	msgs []*amqp.ChangeMessage
	err  error
}

func (p *recordingPublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestPublishingStoreAnnouncesWrites(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := NewPublishingStore(memory.New(), pub)

	id, err := s.Create(ctx, store.Projects, map[string]any{"name": "Apollo"})
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, store.Projects, id, map[string]any{"name": "Apollo 2"}))
	require.NoError(t, s.Delete(ctx, store.Projects, id))

	require.Len(t, pub.msgs, 3)
	assert.Equal(t, amqp.OpCreate, pub.msgs[0].Op)
	assert.Equal(t, amqp.OpReplace, pub.msgs[1].Op)
	assert.Equal(t, amqp.OpDelete, pub.msgs[2].Op)
	assert.Equal(t, id, pub.msgs[2].ID)
	assert.Equal(t, store.Projects, pub.msgs[2].Collection)
}

func TestPublishingStoreSkipsFailedWrites(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewPublishingStore(memory.New(), pub)

	err := s.Delete(context.Background(), store.Projects, "missing")
	assert.Error(t, err)
	assert.Empty(t, pub.msgs)
}

func TestPublishingStorePublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := NewPublishingStore(memory.New(), pub)

	_, err := s.Create(context.Background(), store.Employees, map[string]any{"name": "Ann"})
	assert.NoError(t, err)
	assert.Len(t, pub.msgs, 1)
}

func TestPublishingStoreWithoutPublisher(t *testing.T) {
	s := NewPublishingStore(memory.New(), nil)
	_, err := s.Create(context.Background(), store.Employees, map[string]any{"name": "Ann"})
	assert.NoError(t, err)
}

type pingStore struct {
	*memory.Store
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func TestPublishingStorePingForwards(t *testing.T) {
	down := errors.New("db down")
	assert.ErrorIs(t, NewPublishingStore(pingStore{Store: memory.New(), err: down}, nil).Ping(context.Background()), down)
	assert.NoError(t, NewPublishingStore(memory.New(), nil).Ping(context.Background()), "stores without Ping are always ready")
}
