package logs

import (
	"context"
	"time"

	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/toggles"
)

// Repository defines log persistence
type Repository interface {
	Create(ctx context.Context, entry *LogEntry) (*LogEntry, error)
	GetByID(ctx context.Context, id string) (*LogEntry, error)

	// Delete removes the log with its comments and upvotes and takes the
	// upvotes they had received back off their authors' reputation. It
	// returns the ids of the voters whose upvotes were removed.
	Delete(ctx context.Context, id string) ([]string, error)

	ListPublic(ctx context.Context, q FeedQuery) ([]*LogEntry, error)
	ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*LogEntry, error)

	// ListActivityTimes returns the creation time of every log by userID,
	// public or not.
	ListActivityTimes(ctx context.Context, userID string) ([]time.Time, error)
}

// AuthorResolver loads author blocks for a batch of user ids.
type AuthorResolver interface {
	Summaries(ctx context.Context, ids []string) (map[string]*profiles.Summary, error)
}

// UpvoteChecker reports which of ids the viewer has upvoted. ForgetViewers
// drops whatever it has cached for the given voters.
type UpvoteChecker interface {
	ViewerUpvotes(ctx context.Context, viewerID string, itemType toggles.ItemType, ids []string) (map[string]bool, error)
	ForgetViewers(viewerIDs []string)
}

// Service defines log business logic
type Service interface {
	CreateLog(ctx context.Context, userID string, req CreateLogRequest) (*LogEntry, error)

	// GetLog returns a log visible to viewerID. Private logs of other users
	// are reported as not found.
	GetLog(ctx context.Context, id, viewerID string) (*LogEntry, error)

	DeleteLog(ctx context.Context, id, userID string) error
	ListFeed(ctx context.Context, q FeedQuery) ([]*LogEntry, error)
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*LogEntry, error)
	ListActivityTimes(ctx context.Context, userID string) ([]time.Time, error)
}
