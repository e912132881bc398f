package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examauth/internal/cache"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return NewTokenStore(c), mr
}

func TestTokenStore_Revocation(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeAccessToken(ctx, "jti-1", time.Minute))
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Minute + time.Second)
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_RevokeExpiredTokenIsNoop(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, store.RevokeAccessToken(context.Background(), "jti-2", 0))
	assert.Empty(t, mr.Keys())
}

func TestTokenStore_Consume(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first, err := store.Consume(ctx, "header.payload.sig", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.Consume(ctx, "header.payload.sig", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := store.Consume(ctx, "header.payload.other", time.Hour)
	require.NoError(t, err)
	assert.True(t, other)

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "header.payload")
	}
}

func TestTokenStore_RedisDownFailsOpen(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RevokeAccessToken(ctx, "jti-3", time.Minute))
	mr.Close()

	revoked, err := store.IsAccessTokenRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeAccessToken(ctx, "jti-4", time.Minute))

	first, err := store.Consume(ctx, "header.payload.sig", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}
