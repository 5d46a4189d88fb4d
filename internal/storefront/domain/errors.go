package domain

import (
	"errors"
	"fmt"
)

// Error classes. Concrete errors wrap one of these so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("store unavailable")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrCartNotFound    = fmt.Errorf("cart %w", ErrNotFound)

	ErrEmailTaken = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrCartExists = fmt.Errorf("cart already exists: %w", ErrConflict)

	// ErrRevisionConflict is returned when a cart write lost a compare-and-swap
	// against a concurrent writer.
	ErrRevisionConflict = fmt.Errorf("cart revision changed: %w", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrNotAuthenticated   = fmt.Errorf("not authenticated: %w", ErrUnauthorized)
)

// Unavailable wraps a store failure that is not a domain outcome.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
