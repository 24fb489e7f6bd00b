package circles

import (
	"context"

	"SkillLog/internal/core/profiles"
)

// Repository defines circle persistence
type Repository interface {
	// Create inserts a circle, returning ErrCircleExists when the name is taken
	Create(ctx context.Context, circle *Circle) (*Circle, error)
	GetByName(ctx context.Context, name string) (*Circle, error)

	// List returns public circles plus private circles created by viewerID, by name
	List(ctx context.Context, viewerID string) ([]*Circle, error)

	CreateMessage(ctx context.Context, msg *Message) (*Message, error)

	// ListMessages returns the newest limit messages, oldest first
	ListMessages(ctx context.Context, circleID string, limit int) ([]*Message, error)
}

// AuthorResolver loads author blocks for a batch of user ids.
type AuthorResolver interface {
	Summaries(ctx context.Context, ids []string) (map[string]*profiles.Summary, error)
}

// Service defines circle business logic
type Service interface {
	CreateCircle(ctx context.Context, userID string, req CreateCircleRequest) (*Circle, error)
	ListCircles(ctx context.Context, viewerID string) ([]*Circle, error)
	GetCircle(ctx context.Context, name, viewerID string) (*Circle, error)

	// PostMessage persists the message, then broadcasts it to stream subscribers
	PostMessage(ctx context.Context, userID, name string, req PostMessageRequest) (*Message, error)
	ListMessages(ctx context.Context, name, viewerID string, limit int) ([]*Message, error)

	// Subscribe opens a live feed of new messages in the circle
	Subscribe(ctx context.Context, name, viewerID string) (*Subscription, error)
}
