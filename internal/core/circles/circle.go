package circles

import (
	"time"

	"SkillLog/internal/core/profiles"
)

// Circle is a topic chat room. Name is a URL slug and doubles as the tag
// whose logs the room shows alongside the chat.
type Circle struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedBy   string    `json:"createdBy" db:"created_by"`
	IsPrivate   bool      `json:"isPrivate" db:"is_private"`
}

// VisibleTo reports whether viewerID may read the circle. Private circles
// are only visible to their creator.
func (c *Circle) VisibleTo(viewerID string) bool {
	return !c.IsPrivate || (viewerID != "" && c.CreatedBy == viewerID)
}

// Message is one chat message in a circle.
type Message struct {
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	Author    *profiles.Summary `json:"author,omitempty"`
	ID        string            `json:"id" db:"id"`
	CircleID  string            `json:"circleId" db:"circle_id"`
	UserID    string            `json:"userId" db:"user_id"`
	Content   string            `json:"content" db:"content"`
}

// CreateCircleRequest is the input for CreateCircle.
type CreateCircleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

// PostMessageRequest is the input for PostMessage.
type PostMessageRequest struct {
	Content string `json:"content"`
}
