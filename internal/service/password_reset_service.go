package service

import (
	"context"
	"errors"
	"fmt"

	"examauth/internal/auth"
	apperrors "examauth/internal/errors"
)

// PasswordResetService handles forgot-password and reset-password.
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, email string) error
	// InspectResetToken validates a reset token without side effects and returns its email.
	InspectResetToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	Deps
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(deps Deps) PasswordResetService {
	return &passwordResetService{Deps: deps}
}

// ForgotPassword emails a reset link to a known account.
func (s *passwordResetService) ForgotPassword(ctx context.Context, email string) error {
	if err := requireFields([2]string{"email", email}); err != nil {
		return err
	}
	if _, err := s.findUser(ctx, email); err != nil {
		return err
	}

	token, err := s.Tokens.Issue(email, auth.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	if err := s.Notifier.SendPasswordReset(ctx, email, token); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	s.Log.Info(ctx, "password reset email sent", "email", email)
	return nil
}

func (s *passwordResetService) InspectResetToken(_ context.Context, token string) (string, error) {
	return s.Tokens.Verify(token, auth.PurposePasswordReset, s.maxAge())
}

// ResetPassword replaces the password of the account named by a valid reset token.
// Nothing is written unless every check passes.
func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.Tokens.Verify(token, auth.PurposePasswordReset, s.maxAge())
	if err != nil {
		return err
	}
	if _, err := s.findUser(ctx, email); err != nil {
		return err
	}
	if err := requireFields([2]string{"new_password", newPassword}); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return fmt.Errorf("new_password must be at most 72 bytes: %w", apperrors.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.consume(ctx, token); err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, email, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.Log.Info(ctx, "password reset", "email", email)
	return nil
}
