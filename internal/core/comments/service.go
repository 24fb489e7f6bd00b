package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rivo/uniseg"

	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/events"
)

const (
	maxCommentGraphemes = 2000
	defaultPageSize     = 50
	maxPageSize         = 200
)

type commentService struct {
	repo      Repository
	logs      LogReader
	authors   AuthorResolver
	upvotes   UpvoteChecker
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a comment service. upvotes and publisher may be nil.
func NewService(repo Repository, logReader LogReader, authors AuthorResolver, upvotes UpvoteChecker, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &commentService{
		repo:      repo,
		logs:      logReader,
		authors:   authors,
		upvotes:   upvotes,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateComment adds a comment to a log the commenter can see
func (s *commentService) CreateComment(ctx context.Context, userID, logID string, req CreateCommentRequest) (*Comment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthorized
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxCommentGraphemes {
		return nil, ErrContentTooLong
	}

	if _, err := s.visibleLog(ctx, logID, userID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Comment{
		LogID:   logID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		s.logger.Error("failed to create comment", "error", err, "log", logID, "commenter", userID)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	evt, err := events.New(events.TypeCommentCreated, userID, map[string]string{
		"commentId": created.ID,
		"logId":     logID,
		"userId":    userID,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", "type", events.TypeCommentCreated, "error", err)
	}

	s.hydrate(ctx, []*Comment{created}, userID)
	return created, nil
}

func (s *commentService) ListByLog(ctx context.Context, logID, viewerID string, limit, offset int) ([]*Comment, error) {
	if _, err := s.visibleLog(ctx, logID, viewerID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	list, err := s.repo.ListByLog(ctx, logID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	s.hydrate(ctx, list, viewerID)
	return list, nil
}

func (s *commentService) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*Comment, error) {
	limit, offset = clampPage(limit, offset)
	list, err := s.repo.ListByUser(ctx, userID, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	s.hydrate(ctx, list, viewerID)
	return list, nil
}

func (s *commentService) visibleLog(ctx context.Context, logID, viewerID string) (*logs.LogEntry, error) {
	entry, err := s.logs.GetLog(ctx, logID, viewerID)
	if err != nil {
		if logs.IsNotFound(err) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to load log: %w", err)
	}
	return entry, nil
}

func (s *commentService) hydrate(ctx context.Context, list []*Comment, viewerID string) {
	if len(list) == 0 {
		return
	}

	ids := make([]string, 0, len(list))
	userIDs := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	if s.authors != nil {
		authors, err := s.authors.Summaries(ctx, userIDs)
		if err != nil {
			s.logger.Warn("failed to load comment authors", "error", err)
		} else {
			for _, c := range list {
				c.Author = authors[c.UserID]
			}
		}
	}

	if s.upvotes == nil || viewerID == "" {
		return
	}
	upvoted, err := s.upvotes.ViewerUpvotes(ctx, viewerID, toggles.ItemTypeComment, ids)
	if err != nil {
		s.logger.Warn("failed to load viewer upvotes", "viewer", viewerID, "error", err)
		return
	}
	for _, c := range list {
		c.Viewer = &ViewerState{Upvoted: upvoted[c.ID]}
	}
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
