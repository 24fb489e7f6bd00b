package profiles

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound is returned when no profile exists for an id
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUserIDRequired is returned when an operation is called without a user id
	ErrUserIDRequired = errors.New("user id is required")

	// ErrInvalidRole is returned for roles other than developer and recruiter
	ErrInvalidRole = errors.New("invalid role")
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
	return errors.Is(err, ErrProfileNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) ||
		errors.Is(err, ErrUserIDRequired) ||
		errors.Is(err, ErrInvalidRole)
}
