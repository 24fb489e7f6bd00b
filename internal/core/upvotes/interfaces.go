package upvotes

import (
	"context"

	"SkillLog/internal/core/toggles"
)

// Repository defines upvote persistence
type Repository interface {
	// Apply runs the upvote transaction: lock the item row, check the author,
	// insert or delete the upvote row and adjust the item counter and the
	// author's reputation together. desired nil flips the current state.
	Apply(ctx context.Context, voterID string, item toggles.Item, desired *bool) (*Result, error)

	// ListUpvoted returns the ids voterID has upvoted. An empty itemType
	// returns both logs and comments.
	ListUpvoted(ctx context.Context, voterID string, itemType toggles.ItemType) ([]Upvote, error)

	// Recount rebuilds every counter and reputation from the upvotes table.
	Recount(ctx context.Context) (*RecountStats, error)
}

// Service defines upvote business logic
type Service interface {
	SetUpvote(ctx context.Context, voterID string, req SetUpvoteRequest) (*Result, error)
	ListUpvoted(ctx context.Context, voterID string, itemType toggles.ItemType) ([]string, error)

	// ViewerUpvotes reports which of ids viewerID has upvoted, served from the
	// viewer cache when warm.
	ViewerUpvotes(ctx context.Context, viewerID string, itemType toggles.ItemType, ids []string) (map[string]bool, error)

	// ForgetViewers drops the cached upvote sets of viewerIDs, used when
	// their upvotes were removed outside SetUpvote.
	ForgetViewers(viewerIDs []string)
}
