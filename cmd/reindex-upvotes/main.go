// cmd/reindex-upvotes/main.go
// Rebuilds upvote counters, comment counts and reputation from the upvotes table
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SkillLog/internal/config"
	postgresRepo "SkillLog/internal/db/postgres"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before recounting")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Connecting to database...")
	db, err := postgresRepo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *migrate {
		if err := postgresRepo.Migrate(db, cfg.MigrationsDir); err != nil {
			log.Fatalf("%v", err)
		}
	}

	log.Printf("Recounting upvotes...")
	stats, err := postgresRepo.NewUpvoteRepository(db).Recount(ctx)
	if err != nil {
		log.Fatalf("Failed to recount upvotes: %v", err)
	}

	log.Printf("✓ Fixed %d logs, %d comments and %d profiles", stats.LogsUpdated, stats.CommentsUpdated, stats.ProfilesUpdated)
}
