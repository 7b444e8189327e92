package store

import (
	"context"
	"time"

	"docmanager/internal/cache"
)

// RedisBackend stores each record under its own Redis key. The session
// record gets a TTL matching its expiry, so an abandoned session does not
// linger in Redis; expiry is still enforced by Store on read.
type RedisBackend struct {
	cache *cache.Client
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend creates a backend over a cache client.
func NewRedisBackend(c *cache.Client) *RedisBackend {
	return &RedisBackend{cache: c}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cache.Get(ctx, key)
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.cache.Set(ctx, key, value, ttl)
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.cache.Delete(ctx, key)
}
