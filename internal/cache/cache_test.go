package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "docmanager")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	data, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "users", []byte(`[]`), 0))
	assert.True(t, mr.Exists("docmanager:users"), "keys are prefixed")

	data, err = c.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	require.NoError(t, c.Delete(ctx, "users"))
	require.NoError(t, c.Delete(ctx, "users"))
	data, err = c.Get(ctx, "users")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClient_TTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session", []byte("x"), time.Hour))
	ttl, err := c.TTL(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	mr.FastForward(2 * time.Hour)
	data, err := c.Get(ctx, "session")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClient_ErrorsSurface(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	_, err := c.Get(context.Background(), "users")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
