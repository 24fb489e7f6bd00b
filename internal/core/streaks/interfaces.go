package streaks

import (
	"context"
	"time"
)

// ActivityReader loads the authoritative creation timestamps of a user's activity.
// Implemented by the logs repository.
type ActivityReader interface {
	ListActivityTimes(ctx context.Context, userID string) ([]time.Time, error)
}

// Service exposes streak computation for a stored user.
type Service interface {
	// GetStreak computes the user's streak in the given IANA time zone.
	// An empty tz uses the service default.
	GetStreak(ctx context.Context, userID, tz string) (*Streak, error)
}
