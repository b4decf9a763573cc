package sessionauth

import (
	"errors"
	"fmt"
)

// Error codes for categorizing errors.
const (
	CodeEmailTaken        = "EMAIL_TAKEN"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeInvalidResetToken = "INVALID_RESET_TOKEN"
	CodeStoreRequired     = "STORE_REQUIRED"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeConfigInvalid     = "CONFIG_INVALID"
)

// Sentinel errors for use with errors.Is().
var (
	// Account errors
	ErrEmailTaken   = errors.New("email is already registered")
	ErrUserNotFound = errors.New("no user with that email")

	// Reset token errors
	ErrInvalidResetToken = errors.New("reset token is invalid or already used")

	// Store errors
	ErrStoreRequired    = errors.New("store is required")
	ErrStoreUnavailable = errors.New("store is unavailable")

	// Config errors
	ErrConfigInvalid = errors.New("configuration is invalid")
)

// AuthError is a structured error type that includes an error code and optional wrapped error.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code, message, and optional wrapped error.
func NewAuthError(code, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAccountError returns true if the error is an account-related error
// safe to map to a client response.
func IsAccountError(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidResetToken)
}

// IsConfigError returns true if the error is a configuration-related error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) ||
		errors.Is(err, ErrStoreRequired)
}
