package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/hkdf"

	apperrors "examauth/internal/errors"
)

// Purpose scopes a token to a single use case. Each purpose signs with its own key.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email-verification"
	PurposePasswordReset     Purpose = "password-reset"
)

// DefaultTokenMaxAge bounds the age of verification and reset tokens.
const DefaultTokenMaxAge = time.Hour

// MaxClockSkew is how far in the future an issue time may lie before the token counts as expired.
const MaxClockSkew = 30 * time.Second

// PurposeClaims are carried by verification and reset tokens.
type PurposeClaims struct {
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies purpose-scoped, timestamped tokens.
// It keeps no state: validity is rebuilt from the signature and issue time.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with keys derived from secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issue timestamps and age checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs email for purpose.
func (s *TokenService) Issue(email string, purpose Purpose) (string, error) {
	key, err := s.key(purpose)
	if err != nil {
		return "", err
	}
	claims := &PurposeClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Verify checks the signature for purpose and that the token is at most maxAge old.
// It returns ErrTokenInvalid for bad signatures or malformed input and
// ErrTokenExpired for authentic tokens past maxAge or issued more than
// MaxClockSkew in the future. Only the service clock is consulted.
func (s *TokenService) Verify(token string, purpose Purpose, maxAge time.Duration) (string, error) {
	key, err := s.key(purpose)
	if err != nil {
		return "", err
	}

	claims := &PurposeClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, err = parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}
	if claims.Purpose != purpose || claims.Email == "" || claims.IssuedAt == nil {
		return "", apperrors.ErrTokenInvalid
	}

	age := s.now().Sub(claims.IssuedAt.Time)
	if age > maxAge || age < -MaxClockSkew {
		return "", apperrors.ErrTokenExpired
	}
	return claims.Email, nil
}

// key derives the signing key for purpose; the purpose name acts as salt.
func (s *TokenService) key(purpose Purpose) ([]byte, error) {
	switch purpose {
	case PurposeEmailVerification, PurposePasswordReset:
	default:
		return nil, fmt.Errorf("unknown token purpose %q", purpose)
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, s.secret, []byte(purpose), []byte("examauth token signer"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
