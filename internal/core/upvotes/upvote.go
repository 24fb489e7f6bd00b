package upvotes

import (
	"time"

	"SkillLog/internal/core/toggles"
)

// Upvote is one viewer's upvote on a log or comment. At most one exists per
// (voter, item).
type Upvote struct {
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	VoterID   string           `json:"voterId" db:"voter_id"`
	ItemID    string           `json:"itemId" db:"item_id"`
	ItemType  toggles.ItemType `json:"itemType" db:"item_type"`
}

// SetUpvoteRequest is the server side of a toggle. A nil Upvoted flips the
// current state; otherwise the state is set to *Upvoted and repeating the
// call is a no-op.
type SetUpvoteRequest struct {
	Upvoted  *bool            `json:"upvoted,omitempty"`
	ItemID   string           `json:"itemId"`
	ItemType toggles.ItemType `json:"itemType"`
	AuthorID string           `json:"authorId"`
}

// Item returns the toggled item.
func (r SetUpvoteRequest) Item() toggles.Item {
	return toggles.Item{ID: r.ItemID, Type: r.ItemType, AuthorID: r.AuthorID}
}

// Result is the authoritative state after SetUpvote.
type Result struct {
	ItemID   string           `json:"itemId"`
	ItemType toggles.ItemType `json:"itemType"`
	Count    int              `json:"count"`
	Upvoted  bool             `json:"upvoted"`
	Changed  bool             `json:"changed"`
}

// RecountStats summarizes a counter rebuild.
type RecountStats struct {
	LogsUpdated     int
	CommentsUpdated int
	ProfilesUpdated int
}
