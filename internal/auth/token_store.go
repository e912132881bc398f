package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"examauth/internal/cache"
)

const (
	revokedAccessKeyPrefix = "revoked:access_token:"
	consumedTokenKeyPrefix = "consumed:token:"
)

// TokenLedger records purpose tokens that were already used.
type TokenLedger interface {
	// Consume marks token as used for ttl and reports whether this was its first use.
	Consume(ctx context.Context, token string, ttl time.Duration) (bool, error)
}

// RevocationStore tracks access tokens revoked before their expiry.
type RevocationStore interface {
	RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles token bookkeeping in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements both interfaces
var (
	_ TokenLedger     = (*TokenStore)(nil)
	_ RevocationStore = (*TokenStore)(nil)
)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeAccessToken blacklists an access token until it expires.
func (s *TokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedAccessKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenRevoked checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedAccessKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}

// Consume stores a digest of token, never the token itself.
func (s *TokenStore) Consume(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	sum := sha256.Sum256([]byte(token))
	return s.cache.SetIfAbsent(ctx, consumedTokenKeyPrefix+hex.EncodeToString(sum[:]), []byte("1"), ttl)
}
