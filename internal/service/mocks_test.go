package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"examauth/internal/auth"
	"examauth/internal/logging"
	"examauth/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateActive(ctx context.Context, email string, active bool) error {
	args := m.Called(ctx, email, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

// MockTokenLedger is a mock implementation of auth.TokenLedger.
type MockTokenLedger struct {
	mock.Mock
}

func (m *MockTokenLedger) Consume(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, token, ttl)
	return args.Bool(0), args.Error(1)
}

// MockRevocationStore is a mock implementation of auth.RevocationStore.
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevocationStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret"

var testHasher = auth.NewBcryptHasher(bcrypt.MinCost)

func newDeps(repo *MockUserRepository, notifier *MockNotifier) Deps {
	return Deps{
		Users:       repo,
		Hasher:      testHasher,
		Tokens:      auth.NewTokenService(testSecret),
		Notifier:    notifier,
		Log:         logging.Discard(),
		TokenMaxAge: time.Hour,
	}
}

func mustHash(password string) string {
	h, err := testHasher.Hash(password)
	if err != nil {
		panic(err)
	}
	return h
}

// staleToken issues a token dated past the one hour max age.
func staleToken(email string, purpose auth.Purpose) string {
	tok, err := auth.NewTokenService(testSecret).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(email, purpose)
	if err != nil {
		panic(err)
	}
	return tok
}
