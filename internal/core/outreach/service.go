package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rivo/uniseg"

	"SkillLog/internal/core/profiles"
	"SkillLog/internal/events"
)

const (
	maxMessageGraphemes = 2000
	defaultInboxLimit   = 50
	maxInboxLimit       = 200
)

type outreachService struct {
	repo      Repository
	profiles  ProfileReader
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates an outreach service. publisher may be nil.
func NewService(repo Repository, profileReader ProfileReader, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &outreachService{
		repo:      repo,
		profiles:  profileReader,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *outreachService) SendOutreach(ctx context.Context, recruiterID string, req SendRequest) (*Message, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrMessageEmpty
	}
	if uniseg.GraphemeClusterCount(text) > maxMessageGraphemes {
		return nil, ErrMessageTooLong
	}

	recruiter, err := s.profiles.GetProfile(ctx, recruiterID)
	if err != nil {
		if profiles.IsNotFound(err) {
			return nil, ErrNotRecruiter
		}
		return nil, fmt.Errorf("failed to load sender profile: %w", err)
	}
	if recruiter.Role != profiles.RoleRecruiter {
		return nil, ErrNotRecruiter
	}

	developer, err := s.profiles.GetProfile(ctx, strings.TrimSpace(req.DeveloperID))
	if err != nil {
		if profiles.IsNotFound(err) || profiles.IsValidationError(err) {
			return nil, ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("failed to load developer profile: %w", err)
	}
	if developer.Role != profiles.RoleDeveloper {
		return nil, ErrNotDeveloper
	}

	msg, err := s.repo.Create(ctx, &Message{
		DeveloperID: developer.ID,
		RecruiterID: recruiter.ID,
		Message:     text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send outreach: %w", err)
	}
	msg.Recruiter = recruiter.Summary()

	s.logger.Info("outreach sent", "recruiter", recruiter.ID, "developer", developer.ID)

	evt, err := events.New(events.TypeOutreachSent, developer.ID, map[string]string{
		"messageId":   msg.ID,
		"developerId": developer.ID,
		"recruiterId": recruiter.ID,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", "type", events.TypeOutreachSent, "error", err)
	}

	return msg, nil
}

func (s *outreachService) ListInbox(ctx context.Context, developerID string, limit, offset int) ([]*Message, error) {
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	if limit > maxInboxLimit {
		limit = maxInboxLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.ListByDeveloper(ctx, developerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.RecruiterID)
	}
	recruiters, err := s.profiles.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load recruiter profiles", "error", err)
		return list, nil
	}
	for _, m := range list {
		m.Recruiter = recruiters[m.RecruiterID]
	}
	return list, nil
}
