package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	maxFullNameGraphemes  = 100
	maxSpotlightGraphemes = 600
	defaultDisplayName    = "Anonymous"
	defaultListLimit      = 20
	maxListLimit          = 100
)

type profileService struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a profile service
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUserIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *profileService) EnsureProfile(ctx context.Context, id, email string, role Role) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUserIDRequired
	}
	if role == "" {
		role = RoleDeveloper
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	created, err := s.repo.Create(ctx, &Profile{
		ID:          id,
		DisplayName: DisplayNameFromEmail(email),
		Role:        role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("profile created", "user", id, "role", role)
	return created, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Profile, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	profile, err := s.EnsureProfile(ctx, id, "", RoleDeveloper)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.IsOpenToWork != nil {
		profile.IsOpenToWork = *req.IsOpenToWork
	}

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

func (s *profileService) SearchCandidates(ctx context.Context, minReputation, limit int) ([]*Profile, error) {
	if minReputation < 0 {
		minReputation = 0
	}
	return s.repo.ListOpenToWork(ctx, minReputation, clampLimit(limit))
}

func (s *profileService) TopDevelopers(ctx context.Context, limit int) ([]*Profile, error) {
	return s.repo.ListTopDevelopers(ctx, clampLimit(limit))
}

func (s *profileService) SetSpotlight(ctx context.Context, id, summary string) error {
	if strings.TrimSpace(id) == "" {
		return ErrUserIDRequired
	}
	summary = strings.TrimSpace(summary)
	if uniseg.GraphemeClusterCount(summary) > maxSpotlightGraphemes {
		return &ValidationError{Field: "spotlightSummary", Message: fmt.Sprintf("must be at most %d characters", maxSpotlightGraphemes)}
	}
	return s.repo.SetSpotlight(ctx, id, summary)
}

func (s *profileService) Summaries(ctx context.Context, ids []string) (map[string]*Summary, error) {
	out := make(map[string]*Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	byID, err := s.repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	for id, p := range byID {
		out[id] = p.Summary()
	}
	return out, nil
}

// DisplayNameFromEmail returns the local part of email, or "Anonymous".
func DisplayNameFromEmail(email string) string {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return defaultDisplayName
	}
	local, _, found := strings.Cut(addr.Address, "@")
	if !found || local == "" {
		return defaultDisplayName
	}
	return local
}

func validateUpdate(req UpdateProfileRequest) error {
	if req.FullName != nil && uniseg.GraphemeClusterCount(strings.TrimSpace(*req.FullName)) > maxFullNameGraphemes {
		return &ValidationError{Field: "fullName", Message: fmt.Sprintf("must be at most %d characters", maxFullNameGraphemes)}
	}
	if req.AvatarURL != nil {
		if raw := strings.TrimSpace(*req.AvatarURL); raw != "" && !IsHTTPURL(raw) {
			return &ValidationError{Field: "avatarUrl", Message: "must be an absolute http(s) URL"}
		}
	}
	return nil
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
