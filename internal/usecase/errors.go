package usecase

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUnknownToken covers contest tokens that resolve to no account.
	ErrUnknownToken = errors.New("unknown contest token")
	// ErrUnknownEventCode signals a client/catalog version mismatch.
	ErrUnknownEventCode = errors.New("unknown event code")
	// ErrDuplicateAccount covers re-registration of an already-bound API key.
	ErrDuplicateAccount = errors.New("account already registered")
)

// ValidationError carries the itemized reasons an event report failed the
// code-specific consistency checks. Rejections are side-effect free and safe
// to retry with a corrected payload.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "event report rejected: " + strings.Join(e.Reasons, "; ")
}
