package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TestRedisCache_Integration requires a running Redis on localhost.
func TestRedisCache_Integration(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	c := NewRedisCache[payload](client, "admindash:test:", time.Minute)
	key := "k-" + time.Now().Format("150405.000000")
	defer c.Delete(ctx, key)

	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss for fresh key")
	}
	c.Set(ctx, key, payload{Name: "x", Count: 3})
	got, ok := c.Get(ctx, key)
	if !ok || got.Count != 3 || got.Name != "x" {
		t.Fatalf("unexpected cached value: %+v ok=%v", got, ok)
	}
	c.Delete(ctx, key)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestRedisCacheUnavailableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	c := NewRedisCache[payload](client, "p:", time.Minute)
	c.Set(context.Background(), "k", payload{Name: "x"})
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "redis://:bad:port:x"); err == nil {
		t.Fatalf("expected parse error")
	}
}
