//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"SkillLog/internal/config"
	"SkillLog/internal/core/circles"
	"SkillLog/internal/core/comments"
	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/core/upvotes"
	postgresRepo "SkillLog/internal/db/postgres"
	"SkillLog/internal/events"
)

// Seeds a development database with developers, a recruiter, a few weeks of
// backdated logs (so streaks are non-trivial), comments, upvotes and circles.
//
// Usage:
//
//	go run scripts/seed_dev_data.go

var developers = []struct {
	id, email, name string
	openToWork      bool
}{
	{"dev-ada", "ada@example.com", "Ada Okafor", true},
	{"dev-linus", "linus@example.com", "Linus Berg", false},
	{"dev-mei", "mei@example.com", "Mei Tanaka", true},
	{"dev-omar", "omar@example.com", "Omar Haddad", true},
}

var logTexts = []string{
	"Finally understood how Go interfaces are satisfied implicitly.",
	"Wrote my first table-driven test, way cleaner than copy-pasting cases.",
	"Debugged a goroutine leak with goleak. The culprit was an unclosed ticker.",
	"Built a tiny REST API with chi and learned about middleware ordering.",
	"Spent the evening on SQL window functions. ROW_NUMBER is magic.",
	"Struggled with CSS grid for two hours, then it clicked.",
	"Read about context cancellation and refactored my HTTP client.",
	"Set up goose migrations and rolled one back on purpose to see it work.",
}

var tags = [][]string{{"go"}, {"go", "testing"}, {"go", "concurrency"}, {"go", "http"}, {"sql"}, {"css"}, {"go"}, {"sql", "go"}}

var moods = []logs.Mood{logs.MoodGreat, logs.MoodOkay, logs.MoodTough}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := postgresRepo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgresRepo.Migrate(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("%v", err)
	}

	pub := events.NopPublisher{}
	profileService := profiles.NewService(postgresRepo.NewProfileRepository(db), nil)
	upvoteService := upvotes.NewService(postgresRepo.NewUpvoteRepository(db), upvotes.NewViewerCache(time.Minute, nil), pub, nil)
	logService := logs.NewService(postgresRepo.NewLogRepository(db), profileService, upvoteService, pub, nil)
	commentService := comments.NewService(postgresRepo.NewCommentRepository(db), logService, profileService, upvoteService, pub, nil)
	circleService := circles.NewService(postgresRepo.NewCircleRepository(db), circles.NewHub(0, nil), profileService, pub, nil)

	rng := rand.New(rand.NewSource(42))

	for _, d := range developers {
		if _, err := profileService.EnsureProfile(ctx, d.id, d.email, profiles.RoleDeveloper); err != nil {
			log.Fatalf("Failed to create %s: %v", d.id, err)
		}
		name, open := d.name, d.openToWork
		if _, err := profileService.UpdateProfile(ctx, d.id, profiles.UpdateProfileRequest{FullName: &name, IsOpenToWork: &open}); err != nil {
			log.Fatalf("Failed to update %s: %v", d.id, err)
		}
	}
	if _, err := profileService.EnsureProfile(ctx, "rec-grace", "grace@recruit.example", profiles.RoleRecruiter); err != nil {
		log.Fatalf("Failed to create recruiter: %v", err)
	}

	var created []*logs.LogEntry
	now := time.Now()
	for i, d := range developers {
		// Each developer logs on a run of consecutive days ending i days ago
		days := 3 + rng.Intn(10)
		for day := 0; day < days; day++ {
			n := rng.Intn(len(logTexts))
			entry, err := logService.CreateLog(ctx, d.id, logs.CreateLogRequest{
				Text: logTexts[n],
				Mood: moods[rng.Intn(len(moods))],
				Tags: tags[n],
			})
			if err != nil {
				log.Fatalf("Failed to create log: %v", err)
			}
			at := now.AddDate(0, 0, -(i + day)).Add(-time.Duration(rng.Intn(8)) * time.Hour)
			if _, err := db.ExecContext(ctx, `UPDATE logs SET created_at = $1 WHERE id = $2`, at, entry.ID); err != nil {
				log.Fatalf("Failed to backdate log: %v", err)
			}
			created = append(created, entry)
		}
	}

	totalUpvotes, totalComments := 0, 0
	on := true
	for _, entry := range created {
		for _, d := range developers {
			if d.id == entry.UserID || rng.Intn(3) != 0 {
				continue
			}
			if _, err := upvoteService.SetUpvote(ctx, d.id, upvotes.SetUpvoteRequest{
				Upvoted:  &on,
				ItemID:   entry.ID,
				ItemType: toggles.ItemTypeLog,
				AuthorID: entry.UserID,
			}); err != nil {
				log.Printf("Warning: failed to upvote %s: %v", entry.ID, err)
				continue
			}
			totalUpvotes++
		}
		if rng.Intn(4) == 0 {
			commenter := developers[rng.Intn(len(developers))]
			if _, err := commentService.CreateComment(ctx, commenter.id, entry.ID, comments.CreateCommentRequest{
				Content: "Nice progress, keep it up!",
			}); err != nil {
				log.Printf("Warning: failed to comment on %s: %v", entry.ID, err)
				continue
			}
			totalComments++
		}
	}

	for _, name := range []string{"go", "sql", "css"} {
		_, err := circleService.CreateCircle(ctx, developers[0].id, circles.CreateCircleRequest{
			Name:        name,
			Description: fmt.Sprintf("Everything %s", name),
		})
		if err != nil && !circles.IsConflict(err) {
			log.Fatalf("Failed to create circle %s: %v", name, err)
		}
	}

	log.Printf("✓ Seeded %d profiles, %d logs, %d upvotes, %d comments and 3 circles",
		len(developers)+1, len(created), totalUpvotes, totalComments)
}
