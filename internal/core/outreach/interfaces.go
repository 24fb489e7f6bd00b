package outreach

import (
	"context"

	"SkillLog/internal/core/profiles"
)

// Repository defines outreach persistence
type Repository interface {
	Create(ctx context.Context, msg *Message) (*Message, error)

	// ListByDeveloper returns a developer's inbox, newest first
	ListByDeveloper(ctx context.Context, developerID string, limit, offset int) ([]*Message, error)
}

// ProfileReader loads profiles for role checks and recruiter blocks.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (*profiles.Profile, error)
	Summaries(ctx context.Context, ids []string) (map[string]*profiles.Summary, error)
}

// Service defines outreach business logic
type Service interface {
	SendOutreach(ctx context.Context, recruiterID string, req SendRequest) (*Message, error)
	ListInbox(ctx context.Context, developerID string, limit, offset int) ([]*Message, error)
}
