package logs

import (
	"errors"
	"fmt"
)

var (
	// ErrLogNotFound is returned for missing logs and for private logs the
	// viewer does not own
	ErrLogNotFound = errors.New("log not found")

	// ErrNotAuthorized is returned when a user acts on someone else's log
	ErrNotAuthorized = errors.New("not authorized")

	// ErrTextRequired is returned for empty log text
	ErrTextRequired = errors.New("log text is required")

	// ErrTextTooLong is returned when log text exceeds 5000 graphemes
	ErrTextTooLong = errors.New("log text exceeds 5000 graphemes")

	// ErrInvalidMood is returned for moods outside the supported set
	ErrInvalidMood = errors.New("invalid mood")

	// ErrInvalidSort is returned for unknown feed orderings
	ErrInvalidSort = errors.New("invalid sort")
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
	return errors.Is(err, ErrLogNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) ||
		errors.Is(err, ErrTextRequired) ||
		errors.Is(err, ErrTextTooLong) ||
		errors.Is(err, ErrInvalidMood) ||
		errors.Is(err, ErrInvalidSort)
}
