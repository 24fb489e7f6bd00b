package upvotes

import (
	"errors"

	"SkillLog/internal/core/toggles"
)

var (
	// ErrItemNotFound is returned when the log or comment does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrAuthorMismatch is returned when the supplied author does not own the item
	ErrAuthorMismatch = errors.New("author does not match item")

	// ErrNotAuthorized is returned for anonymous upvotes
	ErrNotAuthorized = errors.New("not authorized")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAuthorMismatch) || toggles.IsValidationError(err)
}
