package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"SkillLog/internal/core/comments"
	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/observability"
)

const (
	reportLogLimit       = 50
	searchLogLimit       = 10
	searchCandidateLimit = 50
	spotlightLogLimit    = 5
	spotlightComments    = 5
	defaultSpotlights    = 5
	maxSpotlightWords    = 30
	generationWorkers    = 4
)

// LogSource lists a user's logs as seen by viewerID.
type LogSource interface {
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*logs.LogEntry, error)
}

// CommentSource lists a user's comments as seen by viewerID.
type CommentSource interface {
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*comments.Comment, error)
}

// ProfileSource finds developers and stores their spotlights.
type ProfileSource interface {
	SearchCandidates(ctx context.Context, minReputation, limit int) ([]*profiles.Profile, error)
	TopDevelopers(ctx context.Context, limit int) ([]*profiles.Profile, error)
	SetSpotlight(ctx context.Context, id, summary string) error
}

// Report is a generated "Proof of Skill" summary.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	UserID      string    `json:"userId"`
	Markdown    string    `json:"report"`
	LogCount    int       `json:"logCount"`
}

// Match is a developer returned by talent search.
type Match struct {
	Profile     *profiles.Profile `json:"profile"`
	MatchReason string            `json:"matchReason"`
}

// Service defines the generative features
type Service interface {
	SynthesisReport(ctx context.Context, userID string) (*Report, error)
	Chat(ctx context.Context, history []ChatTurn, message string) (string, error)

	// SearchDevelopers asks the generator about every open-to-work developer
	// with at least minReputation and keeps those it does not reject.
	SearchDevelopers(ctx context.Context, query string, minReputation int) ([]*Match, error)

	// GenerateSpotlights writes a short spotlight for each top developer and
	// stores it on their profile.
	GenerateSpotlights(ctx context.Context, limit int) ([]*profiles.Profile, error)
}

type insightsService struct {
	generator Generator
	logs      LogSource
	comments  CommentSource
	profiles  ProfileSource
	logger    *slog.Logger
}

// NewService creates the insights service
func NewService(generator Generator, logSource LogSource, commentSource CommentSource, profileSource ProfileSource, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &insightsService{
		generator: generator,
		logs:      logSource,
		comments:  commentSource,
		profiles:  profileSource,
		logger:    logger,
	}
}

func (s *insightsService) SynthesisReport(ctx context.Context, userID string) (*Report, error) {
	entries, err := s.logs.ListByUser(ctx, userID, userID, reportLogLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for report: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoLogs
	}

	text, err := s.generate(ctx, "report", reportPrompt(entries))
	if err != nil {
		return nil, err
	}

	return &Report{
		UserID:      userID,
		Markdown:    strings.TrimSpace(text),
		LogCount:    len(entries),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *insightsService) Chat(ctx context.Context, history []ChatTurn, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageRequired
	}
	for _, turn := range history {
		if turn.Role != RoleUser && turn.Role != RoleModel {
			return "", fmt.Errorf("%w: unknown role %q", ErrInvalidHistory, turn.Role)
		}
	}

	started := time.Now()
	reply, err := s.generator.Chat(ctx, chatSystemInstruction, history, message)
	observability.ObserveGeneration("chat", started, err)
	if err != nil {
		s.logger.Warn("chat generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return reply, nil
}

func (s *insightsService) SearchDevelopers(ctx context.Context, query string, minReputation int) ([]*Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	candidates, err := s.profiles.SearchCandidates(ctx, minReputation, searchCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	// One slot per candidate keeps results in candidate order
	reasons := make([]string, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationWorkers)
	for i, dev := range candidates {
		g.Go(func() error {
			entries, err := s.logs.ListByUser(gctx, dev.ID, "", searchLogLimit, 0)
			if err != nil {
				s.logger.Warn("failed to load candidate logs", "user", dev.ID, "error", err)
				entries = nil
			}
			reason, err := s.generate(gctx, "search", searchPrompt(query, dev, entries))
			if err != nil {
				return err
			}
			reasons[i] = strings.TrimSpace(reason)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]*Match, 0, len(candidates))
	for i, dev := range candidates {
		if reasons[i] == "" || reasons[i] == NoMatch {
			continue
		}
		matches = append(matches, &Match{Profile: dev, MatchReason: reasons[i]})
	}

	s.logger.Info("talent search completed",
		"query", query,
		"candidates", len(candidates),
		"matches", len(matches))
	return matches, nil
}

func (s *insightsService) GenerateSpotlights(ctx context.Context, limit int) ([]*profiles.Profile, error) {
	if limit <= 0 {
		limit = defaultSpotlights
	}
	devs, err := s.profiles.TopDevelopers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top developers: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationWorkers)
	for _, dev := range devs {
		g.Go(func() error {
			entries, err := s.logs.ListByUser(gctx, dev.ID, "", spotlightLogLimit, 0)
			if err != nil {
				return fmt.Errorf("failed to load logs for %s: %w", dev.ID, err)
			}
			recent, err := s.comments.ListByUser(gctx, dev.ID, "", spotlightComments, 0)
			if err != nil {
				return fmt.Errorf("failed to load comments for %s: %w", dev.ID, err)
			}

			text, err := s.generate(gctx, "spotlight", spotlightPrompt(dev, entries, recent))
			if err != nil {
				return err
			}

			summary := truncateWords(text, maxSpotlightWords)
			if err := s.profiles.SetSpotlight(gctx, dev.ID, summary); err != nil {
				return fmt.Errorf("failed to store spotlight for %s: %w", dev.ID, err)
			}
			dev.SpotlightSummary = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return devs, nil
}

// generate calls the generator once. There is no retry; failures surface as
// ErrGenerationFailed.
func (s *insightsService) generate(ctx context.Context, operation, prompt string) (string, error) {
	started := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	observability.ObserveGeneration(operation, started, err)
	if err != nil {
		s.logger.Warn("generation failed", "operation", operation, "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return text, nil
}
