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
	c := NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_SetIfAbsent(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	first, err := c.SetIfAbsent(ctx, "once", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := c.SetIfAbsent(ctx, "once", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestClient_FailSafe(t *testing.T) {
	var nilClient *Client
	ctx := context.Background()

	got, err := nilClient.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, nilClient.Set(ctx, "k", []byte("v"), time.Minute))
	ok, err := nilClient.SetIfAbsent(ctx, "k", []byte("v"), time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)

	c, mr := newTestClient(t)
	mr.Close()
	got, err = c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
