package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"examauth/internal/auth"
	apperrors "examauth/internal/errors"
	"examauth/internal/model"
	"examauth/internal/service"
)

// ResetPasswordTemplate is the page served for reset links opened in a browser.
const ResetPasswordTemplate = "reset_password.html"

// ClaimsContextKey is where the auth middleware stores *auth.AccessClaims.
const ClaimsContextKey = "user"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,notblank" example:"user@example.com"`
	Password string `json:"password" validate:"required,notblank" example:"password123"`
	FullName string `json:"full_name" validate:"required,notblank" example:"John Doe"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents a password reset email request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,notblank"`
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,notblank"`
}

// MessageResponse is returned by endpoints without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse represents a registration response.
type RegisterResponse struct {
	Message string              `json:"message"`
	User    model.PublicProfile `json:"user"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	AccessToken string              `json:"access_token"`
	User        model.PublicProfile `json:"user"`
}

// ResetTokenResponse is the JSON form of an opened reset link.
type ResetTokenResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// bind decodes and validates the body. Errors are domain errors.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("malformed request body: %w", apperrors.ErrInvalidInput)
	}
	return c.Validate(req)
}

// Register godoc
// @Summary Register a new user
// @Description Creates an inactive account and emails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RegisterResponse{
		Message: "registration successful, please check your email to confirm your account",
		User:    model.PublicProfile{Email: user.Email, FullName: user.FullName},
	})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "email has been confirmed"})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	accessToken, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: accessToken,
		User:        user.Profile(),
	})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.resetService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password reset email has been sent"})
}

// ResetPasswordForm godoc
// @Summary Open a password reset link
// @Description Renders the reset form, or returns the token owner as JSON when requested.
// @Tags auth
// @Produce html
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} ResetTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/reset-password/{token} [get]
func (h *AuthHandler) ResetPasswordForm(c echo.Context) error {
	token := c.Param("token")
	wantsJSON := strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)

	email, err := h.resetService.InspectResetToken(c.Request().Context(), token)
	if err != nil {
		if wantsJSON || apperrors.IsUnexpected(err) {
			return err
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Render(httpErr.StatusCode, ResetPasswordTemplate, map[string]interface{}{
			"error": httpErr.Message,
		})
	}

	if wantsJSON {
		return c.JSON(http.StatusOK, ResetTokenResponse{Email: email, Token: token})
	}
	return c.Render(http.StatusOK, ResetPasswordTemplate, map[string]interface{}{
		"email":  email,
		"token":  token,
		"action": c.Request().URL.Path,
	})
}

// ResetPassword godoc
// @Summary Reset password with token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("malformed request body: %w", apperrors.ErrInvalidInput)
	}

	// Token problems outrank a missing password, so validation happens in the service.
	if err := h.resetService.ResetPassword(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset successfully"})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicProfile
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Profile())
}

// Logout godoc
// @Summary Revoke the current access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func claimsFrom(c echo.Context) (*auth.AccessClaims, error) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.AccessClaims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}
