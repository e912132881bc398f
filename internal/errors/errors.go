package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required field is missing or blank.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotVerified is returned when an inactive account tries to log in.
	ErrAccountNotVerified = errors.New("please verify your email before logging in")
	// ErrTokenExpired is returned when a token has a valid signature but is too old.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned when a token is malformed, tampered or unusable.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrUserNotFound is returned when no account matches an email.
	ErrUserNotFound = errors.New("user not found")
)

// InputError names the field that failed validation. It matches ErrInvalidInput.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("please fill in %s", e.Field)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInputError creates an InputError for field.
func NewInputError(field string) error {
	return &InputError{Field: field}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// IsUnexpected reports whether err falls outside the domain taxonomy.
func IsUnexpected(err error) bool {
	return MapErrorToHTTP(err).StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountNotVerified):
		return NewHTTPError(http.StatusUnauthorized, ErrAccountNotVerified.Error(), "ACCOUNT_NOT_VERIFIED")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusBadRequest, ErrTokenExpired.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusBadRequest, ErrTokenInvalid.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "an unexpected error occurred", "INTERNAL_ERROR")
	}
}
