package logs

import (
	"time"

	"SkillLog/internal/core/profiles"
)

// Mood is the emoji a developer attaches to a log.
type Mood string

const (
	MoodGreat Mood = "😄"
	MoodOkay  Mood = "😐"
	MoodTough Mood = "😫"
)

// Valid reports whether m is one of the three supported moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodOkay, MoodTough:
		return true
	}
	return false
}

// ViewerState carries per-viewer flags for an item.
type ViewerState struct {
	Upvoted bool `json:"upvoted"`
}

// LogEntry is one learning log. CreatedAt is set by the database and is the
// only timestamp streaks are computed from.
type LogEntry struct {
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	Author       *profiles.Summary `json:"author,omitempty"`
	Viewer       *ViewerState      `json:"viewer,omitempty"`
	ID           string            `json:"id" db:"id"`
	UserID       string            `json:"userId" db:"user_id"`
	Text         string            `json:"text" db:"text"`
	Mood         Mood              `json:"mood" db:"mood"`
	ImageURL     string            `json:"imageUrl,omitempty" db:"image_url"`
	GitHubURL    string            `json:"githubUrl,omitempty" db:"github_url"`
	LiveURL      string            `json:"liveUrl,omitempty" db:"live_url"`
	Tags         []string          `json:"tags" db:"tags"`
	Upvotes      int               `json:"upvotes" db:"upvotes"`
	CommentCount int               `json:"commentCount" db:"comment_count"`
	IsPublic     bool              `json:"isPublic" db:"is_public"`
}

// CreateLogRequest is the input for CreateLog. IsPublic defaults to true.
type CreateLogRequest struct {
	IsPublic  *bool    `json:"isPublic,omitempty"`
	Text      string   `json:"text"`
	Mood      Mood     `json:"mood"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	GitHubURL string   `json:"githubUrl,omitempty"`
	LiveURL   string   `json:"liveUrl,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// FeedSort orders the public feed.
type FeedSort string

const (
	SortRecent FeedSort = "recent"
	SortTop    FeedSort = "top"
)

// FeedQuery selects a page of the public feed.
type FeedQuery struct {
	ViewerID string // optional; fills Viewer on each entry
	Sort     FeedSort
	Tag      string
	Limit    int
	Offset   int
}
