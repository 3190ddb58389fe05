package domain

import "github.com/pkg/errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("login required")
	ErrUnserviceable     = errors.New("invalid or unserviceable pin code")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrConflict          = errors.New("already exists")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBadCredentials    = errors.New("invalid credentials")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
