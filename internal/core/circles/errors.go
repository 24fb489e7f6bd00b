package circles

import (
	"errors"
	"fmt"
)

var (
	// ErrCircleNotFound is returned for missing circles and private circles the viewer cannot see
	ErrCircleNotFound = errors.New("circle not found")

	// ErrCircleExists is returned when the name is already taken
	ErrCircleExists = errors.New("circle already exists")

	// ErrContentEmpty is returned for blank messages
	ErrContentEmpty = errors.New("message content is required")

	// ErrContentTooLong is returned for messages over 1000 graphemes
	ErrContentTooLong = errors.New("message content exceeds 1000 graphemes")

	// ErrNotAuthorized is returned for anonymous writes
	ErrNotAuthorized = errors.New("not authorized")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCircleNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrCircleExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) ||
		errors.Is(err, ErrContentEmpty) ||
		errors.Is(err, ErrContentTooLong)
}
