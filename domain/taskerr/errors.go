// Package taskerr defines the error taxonomy the HTTP layer maps onto
// status codes: validation → 400, not found → 404, everything else → 500.
// Cache failures never appear here; the cache layer absorbs them.
package taskerr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrValidation = errors.New("validation error")
)

// Validationf wraps ErrValidation with a human-readable detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
