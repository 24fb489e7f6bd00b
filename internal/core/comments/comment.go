package comments

import (
	"time"

	"SkillLog/internal/core/profiles"
)

// Comment is a reply to a learning log. Comments are flat.
type Comment struct {
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	Author    *profiles.Summary `json:"author,omitempty"`
	Viewer    *ViewerState      `json:"viewer,omitempty"`
	ID        string            `json:"id" db:"id"`
	LogID     string            `json:"logId" db:"log_id"`
	UserID    string            `json:"userId" db:"user_id"`
	Content   string            `json:"content" db:"content"`
	Upvotes   int               `json:"upvotes" db:"upvotes"`
}

// ViewerState carries per-viewer flags for a comment.
type ViewerState struct {
	Upvoted bool `json:"upvoted"`
}

// CreateCommentRequest is the input for CreateComment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}
