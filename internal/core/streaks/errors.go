package streaks

import "errors"

var (
	// ErrInvalidTimezone indicates the requested time zone is not a valid IANA name
	ErrInvalidTimezone = errors.New("invalid time zone")

	// ErrUserIDRequired indicates the user id was empty
	ErrUserIDRequired = errors.New("user id is required")
)

// IsValidationError checks if an error is caused by bad input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTimezone) || errors.Is(err, ErrUserIDRequired)
}
