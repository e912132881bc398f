package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"examauth/internal/auth"
	apperrors "examauth/internal/errors"
	"examauth/internal/logging"
	"examauth/internal/model"
	"examauth/internal/notify"
	"examauth/internal/repository"
)

// AuthService drives the account lifecycle: registration, email verification and login.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
	Profile(ctx context.Context, email string) (*model.User, error)
	Logout(ctx context.Context, claims *auth.AccessClaims) error
}

// Deps bundles the collaborators shared by the account services.
type Deps struct {
	Users    repository.UserRepository
	Hasher   auth.PasswordHasher
	Tokens   *auth.TokenService
	Notifier notify.Notifier
	Log      logging.Logger
	// TokenMaxAge bounds verification and reset tokens. Zero means auth.DefaultTokenMaxAge.
	TokenMaxAge time.Duration
	// Ledger makes purpose tokens single-use when set.
	Ledger auth.TokenLedger
}

func (d Deps) maxAge() time.Duration {
	if d.TokenMaxAge <= 0 {
		return auth.DefaultTokenMaxAge
	}
	return d.TokenMaxAge
}

// consume enforces single use when a ledger is configured.
func (d Deps) consume(ctx context.Context, token string) error {
	if d.Ledger == nil {
		return nil
	}
	first, err := d.Ledger.Consume(ctx, token, d.maxAge())
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}
	if !first {
		return apperrors.ErrTokenInvalid
	}
	return nil
}

// findUser maps a missing record to ErrUserNotFound.
func (d Deps) findUser(ctx context.Context, email string) (*model.User, error) {
	user, err := d.Users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

type authService struct {
	Deps
	jwtService *auth.JWTService
	revoked    auth.RevocationStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(deps Deps, jwtService *auth.JWTService, revoked auth.RevocationStore) AuthService {
	return &authService{
		Deps:       deps,
		jwtService: jwtService,
		revoked:    revoked,
	}
}

// requireFields returns an InputError for the first blank value, in order.
func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return apperrors.NewInputError(f[0])
		}
	}
	return nil
}

// Register creates an inactive account and emails a verification link.
func (s *authService) Register(ctx context.Context, email, password, fullName string) (*model.User, error) {
	if err := requireFields(
		[2]string{"email", email},
		[2]string{"password", password},
		[2]string{"full_name", fullName},
	); err != nil {
		return nil, err
	}

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		s.Log.Warn(ctx, "email already exists", "email", email)
		return nil, apperrors.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.Hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("password must be at most 72 bytes: %w", apperrors.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         model.DefaultRole,
		IsActive:     false,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.Log.Info(ctx, "user created", "email", email)

	// Registration stands even when the mail cannot be delivered.
	token, err := s.Tokens.Issue(email, auth.PurposeEmailVerification)
	if err != nil {
		s.Log.Error(ctx, "issue verification token", "email", email, "error", err)
		return user, nil
	}
	if err := s.Notifier.SendVerification(ctx, email, token); err != nil {
		s.Log.Error(ctx, "send verification email", "email", email, "error", err)
		return user, nil
	}
	s.Log.Info(ctx, "verification email sent", "email", email)

	return user, nil
}

// VerifyEmail activates the account named by a valid email-verification token.
// A token for an email with no account is reported as invalid.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.Tokens.Verify(token, auth.PurposeEmailVerification, s.maxAge())
	if err != nil {
		return err
	}

	if _, err := s.findUser(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.Log.Warn(ctx, "verification token for unknown user", "email", email)
			return apperrors.ErrTokenInvalid
		}
		return err
	}

	if err := s.consume(ctx, token); err != nil {
		return err
	}
	if err := s.Users.UpdateActive(ctx, email, true); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	s.Log.Info(ctx, "email verified", "email", email)
	return nil
}

// Login checks credentials and issues an access token for active accounts.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.findUser(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.Log.Warn(ctx, "failed login attempt", "email", email)
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !s.Hasher.Verify(user.PasswordHash, password) {
		s.Log.Warn(ctx, "failed login attempt", "email", email)
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.Log.Warn(ctx, "inactive user attempted login", "email", email)
		return "", nil, apperrors.ErrAccountNotVerified
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	s.Log.Info(ctx, "successful login", "email", email)

	return accessToken, user, nil
}

// Profile returns the account for an authenticated email.
func (s *authService) Profile(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, email)
}

// Logout revokes the access token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.AccessClaims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrTokenInvalid
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoked.RevokeAccessToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	s.Log.Info(ctx, "user logged out", "email", claims.Subject)
	return nil
}
