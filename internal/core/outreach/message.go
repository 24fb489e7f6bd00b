package outreach

import (
	"time"

	"SkillLog/internal/core/profiles"
)

// Message is a recruiter reaching out to a developer.
type Message struct {
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	Recruiter   *profiles.Summary `json:"recruiter,omitempty"`
	ID          string            `json:"id" db:"id"`
	DeveloperID string            `json:"developerId" db:"developer_id"`
	RecruiterID string            `json:"recruiterId" db:"recruiter_id"`
	Message     string            `json:"message" db:"message"`
}

// SendRequest is the input for SendOutreach.
type SendRequest struct {
	DeveloperID string `json:"developerId"`
	Message     string `json:"message"`
}
