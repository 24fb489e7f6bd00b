package outreach

import "errors"

var (
	// ErrNotRecruiter is returned when a non-recruiter tries to send outreach
	ErrNotRecruiter = errors.New("only recruiters can send outreach")

	// ErrNotDeveloper is returned when the recipient is not a developer
	ErrNotDeveloper = errors.New("outreach can only be sent to developers")

	// ErrDeveloperNotFound is returned when the recipient does not exist
	ErrDeveloperNotFound = errors.New("developer not found")

	// ErrMessageEmpty is returned for blank messages
	ErrMessageEmpty = errors.New("message is required")

	// ErrMessageTooLong is returned for messages over 2000 graphemes
	ErrMessageTooLong = errors.New("message exceeds 2000 graphemes")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDeveloperNotFound)
}

// IsForbidden checks if an error is a role check failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotRecruiter)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotDeveloper) ||
		errors.Is(err, ErrMessageEmpty) ||
		errors.Is(err, ErrMessageTooLong)
}
