package upvotes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"SkillLog/internal/core/toggles"
	"SkillLog/internal/events"
	"SkillLog/internal/observability"
)

type upvoteService struct {
	repo      Repository
	cache     *ViewerCache
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates an upvote service. cache and publisher may be nil.
func NewService(repo Repository, cache *ViewerCache, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &upvoteService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// SetUpvote applies an upvote change for voterID. Counters and the author's
// reputation move in the same transaction as the upvote row.
func (s *upvoteService) SetUpvote(ctx context.Context, voterID string, req SetUpvoteRequest) (*Result, error) {
	if strings.TrimSpace(voterID) == "" {
		return nil, ErrNotAuthorized
	}
	item := req.Item()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	result, err := s.repo.Apply(ctx, voterID, item, req.Upvoted)
	if err != nil {
		observability.RecordUpvoteToggle(string(item.Type), "failed")
		if IsNotFound(err) || IsValidationError(err) {
			return nil, err
		}
		s.logger.Error("upvote transaction failed",
			"error", err,
			"voter", voterID,
			"item", item.ID,
			"type", item.Type)
		return nil, fmt.Errorf("failed to apply upvote: %w", err)
	}

	observability.RecordUpvoteToggle(string(item.Type), outcome(result))
	if !result.Changed {
		return result, nil
	}

	if s.cache != nil {
		s.cache.Record(voterID, item.Type, item.ID, result.Upvoted)
	}

	evt, err := events.New(events.TypeUpvoteToggled, item.AuthorID, map[string]interface{}{
		"voterId":  voterID,
		"itemId":   item.ID,
		"itemType": item.Type,
		"authorId": item.AuthorID,
		"upvoted":  result.Upvoted,
		"count":    result.Count,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", "type", events.TypeUpvoteToggled, "error", err)
	}

	return result, nil
}

func (s *upvoteService) ListUpvoted(ctx context.Context, voterID string, itemType toggles.ItemType) ([]string, error) {
	if strings.TrimSpace(voterID) == "" {
		return nil, ErrNotAuthorized
	}
	if itemType != "" && !itemType.Valid() {
		return nil, toggles.ErrInvalidItemType
	}

	list, err := s.repo.ListUpvoted(ctx, voterID, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to list upvotes: %w", err)
	}

	ids := make([]string, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ItemID)
	}
	return ids, nil
}

func (s *upvoteService) ViewerUpvotes(ctx context.Context, viewerID string, itemType toggles.ItemType, ids []string) (map[string]bool, error) {
	if viewerID == "" || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	var stamp uint64
	if s.cache != nil {
		if hit, ok := s.cache.Lookup(viewerID, itemType, ids); ok {
			return hit, nil
		}
		stamp = s.cache.Stamp()
	}

	list, err := s.repo.ListUpvoted(ctx, viewerID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer upvotes: %w", err)
	}

	if s.cache != nil {
		s.cache.SetForViewer(viewerID, stamp, list)
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[string]bool, len(ids))
	for _, u := range list {
		if u.ItemType != itemType {
			continue
		}
		if _, ok := wanted[u.ItemID]; ok {
			out[u.ItemID] = true
		}
	}
	return out, nil
}

func (s *upvoteService) ForgetViewers(viewerIDs []string) {
	if s.cache == nil {
		return
	}
	for _, id := range viewerIDs {
		s.cache.Invalidate(id)
	}
}

func outcome(r *Result) string {
	switch {
	case !r.Changed:
		return "unchanged"
	case r.Upvoted:
		return "added"
	default:
		return "removed"
	}
}
