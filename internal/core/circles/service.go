package circles

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"SkillLog/internal/events"
)

const (
	maxMessageGraphemes     = 1000
	maxDescriptionGraphemes = 280
	defaultMessageLimit     = 100
	maxMessageLimit         = 500
)

var nameRegex = regexp.MustCompile(`^[a-z0-9-]{2,40}$`)

type circleService struct {
	repo      Repository
	hub       *Hub
	authors   AuthorResolver
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a circle service. authors and publisher may be nil.
func NewService(repo Repository, hub *Hub, authors AuthorResolver, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &circleService{
		repo:      repo,
		hub:       hub,
		authors:   authors,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *circleService) CreateCircle(ctx context.Context, userID string, req CreateCircleRequest) (*Circle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthorized
	}

	name := NormalizeName(req.Name)
	if !nameRegex.MatchString(name) {
		return nil, &ValidationError{Field: "name", Message: "must be 2-40 characters of a-z, 0-9 and hyphens"}
	}
	description := strings.TrimSpace(req.Description)
	if uniseg.GraphemeClusterCount(description) > maxDescriptionGraphemes {
		return nil, &ValidationError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", maxDescriptionGraphemes)}
	}

	created, err := s.repo.Create(ctx, &Circle{
		Name:        name,
		Description: description,
		CreatedBy:   userID,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}

	s.logger.Info("circle created", "circle", created.Name, "creator", userID, "private", created.IsPrivate)
	return created, nil
}

func (s *circleService) ListCircles(ctx context.Context, viewerID string) ([]*Circle, error) {
	list, err := s.repo.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circles: %w", err)
	}
	return list, nil
}

func (s *circleService) GetCircle(ctx context.Context, name, viewerID string) (*Circle, error) {
	circle, err := s.repo.GetByName(ctx, NormalizeName(name))
	if err != nil {
		return nil, err
	}
	if !circle.VisibleTo(viewerID) {
		return nil, ErrCircleNotFound
	}
	return circle, nil
}

func (s *circleService) PostMessage(ctx context.Context, userID, name string, req PostMessageRequest) (*Message, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthorized
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxMessageGraphemes {
		return nil, ErrContentTooLong
	}

	circle, err := s.GetCircle(ctx, name, userID)
	if err != nil {
		return nil, err
	}

	msg, err := s.repo.CreateMessage(ctx, &Message{
		CircleID: circle.ID,
		UserID:   userID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	s.hydrate(ctx, []*Message{msg})
	delivered := s.hub.Broadcast(msg)
	s.logger.Debug("circle message posted", "circle", circle.Name, "message", msg.ID, "delivered", delivered)

	evt, err := events.New(events.TypeMessagePosted, circle.ID, map[string]string{
		"circleId":  circle.ID,
		"messageId": msg.ID,
		"userId":    userID,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", "type", events.TypeMessagePosted, "error", err)
	}

	return msg, nil
}

func (s *circleService) ListMessages(ctx context.Context, name, viewerID string, limit int) ([]*Message, error) {
	circle, err := s.GetCircle(ctx, name, viewerID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	list, err := s.repo.ListMessages(ctx, circle.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	s.hydrate(ctx, list)
	return list, nil
}

func (s *circleService) Subscribe(ctx context.Context, name, viewerID string) (*Subscription, error) {
	circle, err := s.GetCircle(ctx, name, viewerID)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(circle.ID), nil
}

func (s *circleService) hydrate(ctx context.Context, list []*Message) {
	if s.authors == nil || len(list) == 0 {
		return
	}
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.UserID)
	}
	authors, err := s.authors.Summaries(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load message authors", "error", err)
		return
	}
	for _, m := range list {
		m.Author = authors[m.UserID]
	}
}

// NormalizeName lower-cases and trims a circle name, dropping a leading '#'.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}
