package profiles

import (
	"time"
)

// Role distinguishes developers, who log and get discovered, from recruiters,
// who search and reach out.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleRecruiter Role = "recruiter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDeveloper || r == RoleRecruiter
}

// Profile is a user's public profile. Reputation is the number of upvotes the
// user's logs and comments have received and is maintained by the upvote
// transaction, never written directly.
type Profile struct {
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
	ID               string    `json:"id" db:"id"`
	FullName         string    `json:"fullName,omitempty" db:"full_name"`
	AvatarURL        string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	DisplayName      string    `json:"displayName" db:"display_name"`
	SpotlightSummary string    `json:"spotlightSummary,omitempty" db:"spotlight_summary"`
	Role             Role      `json:"role" db:"role"`
	Reputation       int       `json:"reputation" db:"reputation"`
	IsOpenToWork     bool      `json:"isOpenToWork" db:"is_open_to_work"`
}

// Summary is the author block embedded in logs, comments and messages.
type Summary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Summary returns the embeddable author view of p.
func (p *Profile) Summary() *Summary {
	if p == nil {
		return nil
	}
	return &Summary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		FullName:    p.FullName,
		AvatarURL:   p.AvatarURL,
	}
}

// UpdateProfileRequest carries the user-editable fields. Nil fields are left as is.
type UpdateProfileRequest struct {
	FullName     *string `json:"fullName,omitempty"`
	AvatarURL    *string `json:"avatarUrl,omitempty"`
	IsOpenToWork *bool   `json:"isOpenToWork,omitempty"`
}
