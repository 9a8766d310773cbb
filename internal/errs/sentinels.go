// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across service/storage layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint violation (e.g., email taken).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates failed authentication or an invalid/expired token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates a storage or infrastructure failure. The wrapped
	// cause is for logs only and must never reach a response body.
	ErrInternal = errors.New("internal error")
)

// NotFound wraps ErrNotFound with a safe, user-visible message.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Conflict wraps ErrConflict with a safe, user-visible message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// Validation wraps ErrValidation with a safe, user-visible message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Unauthorized wraps ErrUnauthorized with a safe, user-visible message.
func Unauthorized(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
}

// Internal wraps an infrastructure error. err is kept in the chain for
// logging; callers at the transport boundary must not emit it.
func Internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
