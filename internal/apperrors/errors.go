package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the repositories and services.
var (
	// ErrNotFound is returned by every repository lookup that misses.
	// Expired auth tokens also surface as ErrNotFound: callers must not be
	// able to distinguish an expired token from one that never existed.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a broken provider integration (non-200 response,
	// unconfirmed callback, unknown request token). It is never converted
	// into a structured client-facing error.
	ErrUpstream = errors.New("upstream provider error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
