package streaks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Streak is the API view of a user's current streak.
type Streak struct {
	UserID   string `json:"userId"`
	Timezone string `json:"timezone"`
	Days     int    `json:"days"`
	// Today reports whether today already has activity. When false and Days > 0
	// the streak is alive only through the grace window.
	Today bool `json:"today"`
}

type streakService struct {
	reader     ActivityReader
	defaultLoc *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a streak service reading activity from reader.
func NewService(reader ActivityReader, defaultLoc *time.Location, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &streakService{
		reader:     reader,
		defaultLoc: defaultLoc,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *streakService) GetStreak(ctx context.Context, userID, tz string) (*Streak, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	loc, err := s.resolveLocation(tz)
	if err != nil {
		return nil, err
	}

	times, err := s.reader.ListActivityTimes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity for streak: %w", err)
	}

	records := make([]ActivityRecord, 0, len(times))
	for _, t := range times {
		records = append(records, ActivityRecord{CreatedAt: t})
	}

	now := s.now()
	calc := &Calculator{Location: loc, Now: func() time.Time { return now }}
	days := calc.Calculate(records)

	s.logger.Debug("streak computed",
		"user", userID,
		"timezone", loc.String(),
		"records", len(records),
		"days", days)

	return &Streak{
		UserID:   userID,
		Timezone: loc.String(),
		Days:     days,
		Today:    calc.HasActivityOn(records, now),
	}, nil
}

func (s *streakService) resolveLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return s.defaultLoc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}
