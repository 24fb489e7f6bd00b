package comments

import (
	"context"

	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/toggles"
)

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts a comment and bumps the log's comment count in the same transaction
	Create(ctx context.Context, comment *Comment) (*Comment, error)

	GetByID(ctx context.Context, id string) (*Comment, error)

	// ListByLog returns comments on a log, oldest first
	ListByLog(ctx context.Context, logID string, limit, offset int) ([]*Comment, error)

	// ListByUser returns a user's comments, newest first, restricted to logs
	// that are public or owned by viewerID
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*Comment, error)
}

// LogReader resolves a log as seen by a viewer.
type LogReader interface {
	GetLog(ctx context.Context, id, viewerID string) (*logs.LogEntry, error)
}

// AuthorResolver loads author blocks for a batch of user ids.
type AuthorResolver interface {
	Summaries(ctx context.Context, ids []string) (map[string]*profiles.Summary, error)
}

// UpvoteChecker reports which of ids the viewer has upvoted.
type UpvoteChecker interface {
	ViewerUpvotes(ctx context.Context, viewerID string, itemType toggles.ItemType, ids []string) (map[string]bool, error)
}

// Service defines comment business logic
type Service interface {
	CreateComment(ctx context.Context, userID, logID string, req CreateCommentRequest) (*Comment, error)
	ListByLog(ctx context.Context, logID, viewerID string, limit, offset int) ([]*Comment, error)
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*Comment, error)
}
