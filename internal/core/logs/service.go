package logs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/events"
)

const (
	maxTextGraphemes = 5000
	maxTags          = 10
	maxTagLength     = 32
	defaultPageSize  = 20
	maxPageSize      = 100
)

type logService struct {
	repo      Repository
	authors   AuthorResolver
	upvotes   UpvoteChecker
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a log service. upvotes and publisher may be nil.
func NewService(repo Repository, authors AuthorResolver, upvotes UpvoteChecker, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &logService{
		repo:      repo,
		authors:   authors,
		upvotes:   upvotes,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *logService) CreateLog(ctx context.Context, userID string, req CreateLogRequest) (*LogEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthorized
	}

	entry, err := buildEntry(userID, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	s.publish(ctx, events.TypeLogCreated, userID, map[string]interface{}{
		"logId":    created.ID,
		"userId":   userID,
		"tags":     created.Tags,
		"isPublic": created.IsPublic,
	})

	s.hydrate(ctx, []*LogEntry{created}, userID)
	return created, nil
}

func (s *logService) GetLog(ctx context.Context, id, viewerID string) (*LogEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrLogNotFound
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.IsPublic && entry.UserID != viewerID {
		return nil, ErrLogNotFound
	}

	s.hydrate(ctx, []*LogEntry{entry}, viewerID)
	return entry, nil
}

func (s *logService) DeleteLog(ctx context.Context, id, userID string) error {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return ErrNotAuthorized
	}
	voters, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if s.upvotes != nil && len(voters) > 0 {
		s.upvotes.ForgetViewers(voters)
	}

	s.logger.Info("log deleted", "log", id, "user", userID, "voters", len(voters))
	return nil
}

func (s *logService) ListFeed(ctx context.Context, q FeedQuery) ([]*LogEntry, error) {
	switch q.Sort {
	case "":
		q.Sort = SortRecent
	case SortRecent, SortTop:
	default:
		return nil, ErrInvalidSort
	}
	q.Tag = normalizeTag(q.Tag)
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)

	entries, err := s.repo.ListPublic(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	s.hydrate(ctx, entries, q.ViewerID)
	return entries, nil
}

func (s *logService) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*LogEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "userId", Message: "is required"}
	}
	limit, offset = clampPage(limit, offset)

	entries, err := s.repo.ListByUser(ctx, userID, userID == viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	s.hydrate(ctx, entries, viewerID)
	return entries, nil
}

func (s *logService) ListActivityTimes(ctx context.Context, userID string) ([]time.Time, error) {
	return s.repo.ListActivityTimes(ctx, userID)
}

// hydrate fills authors and viewer flags. Failures degrade the response
// rather than failing it.
func (s *logService) hydrate(ctx context.Context, entries []*LogEntry, viewerID string) {
	if len(entries) == 0 {
		return
	}

	ids := make([]string, 0, len(entries))
	userIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		userIDs = append(userIDs, e.UserID)
		if e.Tags == nil {
			e.Tags = []string{}
		}
	}

	if s.authors != nil {
		authors, err := s.authors.Summaries(ctx, userIDs)
		if err != nil {
			s.logger.Warn("failed to load log authors", "error", err)
		} else {
			for _, e := range entries {
				e.Author = authors[e.UserID]
			}
		}
	}

	if s.upvotes == nil || viewerID == "" {
		return
	}
	upvoted, err := s.upvotes.ViewerUpvotes(ctx, viewerID, toggles.ItemTypeLog, ids)
	if err != nil {
		s.logger.Warn("failed to load viewer upvotes", "viewer", viewerID, "error", err)
		return
	}
	for _, e := range entries {
		e.Viewer = &ViewerState{Upvoted: upvoted[e.ID]}
	}
}

func (s *logService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	evt, err := events.New(eventType, key, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}

func buildEntry(userID string, req CreateLogRequest) (*LogEntry, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if uniseg.GraphemeClusterCount(text) > maxTextGraphemes {
		return nil, ErrTextTooLong
	}
	if !req.Mood.Valid() {
		return nil, ErrInvalidMood
	}

	tags, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	urls := map[string]*string{
		"imageUrl":  &req.ImageURL,
		"githubUrl": &req.GitHubURL,
		"liveUrl":   &req.LiveURL,
	}
	for field, raw := range urls {
		*raw = strings.TrimSpace(*raw)
		if *raw != "" && !profiles.IsHTTPURL(*raw) {
			return nil, &ValidationError{Field: field, Message: "must be an absolute http(s) URL"}
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	return &LogEntry{
		UserID:    userID,
		Text:      text,
		Tags:      tags,
		Mood:      req.Mood,
		ImageURL:  req.ImageURL,
		GitHubURL: req.GitHubURL,
		LiveURL:   req.LiveURL,
		IsPublic:  isPublic,
	}, nil
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		tag := normalizeTag(t)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		if uniseg.GraphemeClusterCount(tag) > maxTagLength {
			return nil, &ValidationError{Field: "tags", Message: fmt.Sprintf("tag %q exceeds %d characters", tag, maxTagLength)}
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > maxTags {
		return nil, &ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags allowed", maxTags)}
	}
	return out, nil
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
