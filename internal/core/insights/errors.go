package insights

import "errors"

var (
	// ErrGenerationFailed wraps any error from the text generator
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrNoLogs is returned when a report is requested for a user without logs
	ErrNoLogs = errors.New("no logs to analyze")

	// ErrMessageRequired is returned for an empty chat message
	ErrMessageRequired = errors.New("message is required")

	// ErrQueryRequired is returned for an empty talent search
	ErrQueryRequired = errors.New("search query is required")

	// ErrInvalidHistory is returned for chat turns with an unknown role
	ErrInvalidHistory = errors.New("invalid chat history")
)

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoLogs) ||
		errors.Is(err, ErrMessageRequired) ||
		errors.Is(err, ErrQueryRequired) ||
		errors.Is(err, ErrInvalidHistory)
}

// IsGenerationError checks if an error came from the generator
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}
