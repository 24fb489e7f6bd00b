package toggles

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteMutation matches every failed remote toggle, see RemoteMutationError
	ErrRemoteMutation = errors.New("remote mutation failed")

	// ErrItemIDRequired indicates the item id was empty
	ErrItemIDRequired = errors.New("item id is required")

	// ErrInvalidItemType indicates the item type is not "log" or "comment"
	ErrInvalidItemType = errors.New("invalid item type: must be 'log' or 'comment'")

	// ErrAuthorIDRequired indicates the author id was empty
	ErrAuthorIDRequired = errors.New("author id is required")
)

// RemoteMutationError reports a toggle whose remote call failed.
// By the time it is delivered the visible state has already been reverted.
type RemoteMutationError struct {
	Err     error
	Item    Item
	Upvoted bool // the optimistic value that was rolled back
}

func (e *RemoteMutationError) Error() string {
	action := "remove upvote from"
	if e.Upvoted {
		action = "upvote"
	}
	return fmt.Sprintf("failed to %s %s %s: %v", action, e.Item.Type, e.Item.ID, e.Err)
}

func (e *RemoteMutationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRemoteMutation) match any RemoteMutationError.
func (e *RemoteMutationError) Is(target error) bool {
	return target == ErrRemoteMutation
}

// IsValidationError checks if an error was caused by a malformed item
func IsValidationError(err error) bool {
	return errors.Is(err, ErrItemIDRequired) ||
		errors.Is(err, ErrInvalidItemType) ||
		errors.Is(err, ErrAuthorIDRequired)
}
