package profiles

import "context"

// Repository defines profile persistence
type Repository interface {
	// Create inserts a profile. Returns the stored row; when a profile with the
	// same id already exists it is returned unchanged.
	Create(ctx context.Context, profile *Profile) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)

	// GetByIDs loads profiles in one query. Missing ids are absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error)

	// Update writes the user-editable columns and returns the stored row.
	Update(ctx context.Context, profile *Profile) (*Profile, error)

	// ListOpenToWork returns developers open to work with at least minReputation,
	// highest reputation first.
	ListOpenToWork(ctx context.Context, minReputation, limit int) ([]*Profile, error)

	// ListTopDevelopers returns developers ordered by reputation.
	ListTopDevelopers(ctx context.Context, limit int) ([]*Profile, error)

	SetSpotlight(ctx context.Context, id, summary string) error
}

// Service defines profile business logic
type Service interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)

	// EnsureProfile returns the profile for id, creating it on first sight.
	// The display name defaults to the local part of email.
	EnsureProfile(ctx context.Context, id, email string, role Role) (*Profile, error)

	// UpdateProfile applies req, creating the profile first when missing.
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Profile, error)

	SearchCandidates(ctx context.Context, minReputation, limit int) ([]*Profile, error)
	TopDevelopers(ctx context.Context, limit int) ([]*Profile, error)
	SetSpotlight(ctx context.Context, id, summary string) error

	// Summaries resolves author blocks for ids. Unknown ids are skipped.
	Summaries(ctx context.Context, ids []string) (map[string]*Summary, error)
}
