package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SkillLog/internal/api/middleware"
	"SkillLog/internal/api/routes"
	"SkillLog/internal/auth"
	"SkillLog/internal/config"
	"SkillLog/internal/core/circles"
	"SkillLog/internal/core/comments"
	"SkillLog/internal/core/insights"
	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/outreach"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/streaks"
	"SkillLog/internal/core/upvotes"
	postgresRepo "SkillLog/internal/db/postgres"
	"SkillLog/internal/events"
	"SkillLog/internal/observability"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgresRepo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	log.Println("Connected to database")

	if err := postgresRepo.Migrate(db, cfg.MigrationsDir); err != nil {
		log.Fatal(err)
	}

	log.Println("Migrations completed successfully")

	// Event publishing is optional
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Printf("Failed to close Kafka writer: %v", err)
			}
		}()
		publisher = kafkaPublisher
		log.Printf("Publishing events to Kafka topic %s", cfg.KafkaTopic)
	}

	// Token verification: shared secret always, JWKS when configured
	var keys auth.KeyFetcher
	if cfg.JWKSURL != "" {
		fetcher, err := auth.NewJWKSFetcher(ctx, cfg.JWKSURL, 15*time.Minute)
		if err != nil {
			log.Fatal("Failed to initialize JWKS fetcher: ", err)
		}
		keys = fetcher
	}
	authMiddleware := middleware.NewAuthMiddleware(auth.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer, keys))

	// Repositories
	profileRepo := postgresRepo.NewProfileRepository(db)
	logRepo := postgresRepo.NewLogRepository(db)
	commentRepo := postgresRepo.NewCommentRepository(db)
	upvoteRepo := postgresRepo.NewUpvoteRepository(db)
	circleRepo := postgresRepo.NewCircleRepository(db)
	outreachRepo := postgresRepo.NewOutreachRepository(db)

	// Services
	viewerCache := upvotes.NewViewerCache(cfg.UpvoteCacheTTL, logger)
	profileService := profiles.NewService(profileRepo, logger)
	upvoteService := upvotes.NewService(upvoteRepo, viewerCache, publisher, logger)
	logService := logs.NewService(logRepo, profileService, upvoteService, publisher, logger)
	commentService := comments.NewService(commentRepo, logService, profileService, upvoteService, publisher, logger)
	streakService := streaks.NewService(logService, cfg.Location(), logger)
	circleService := circles.NewService(circleRepo, circles.NewHub(0, logger), profileService, publisher, logger)
	outreachService := outreach.NewService(outreachRepo, profileService, publisher, logger)

	var insightsService insights.Service
	if cfg.GeminiAPIKey != "" || cfg.GeminiVertexAI {
		generator, err := insights.NewGenAIGenerator(ctx, insights.GenAIConfig{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			VertexAI: cfg.GeminiVertexAI,
		})
		if err != nil {
			log.Fatal("Failed to initialize text generator: ", err)
		}
		insightsService = insights.NewService(generator, logService, commentService, profileService, logger)
		log.Printf("Insights enabled with model %s", cfg.GeminiModel)
	} else {
		log.Println("GEMINI_API_KEY not set, insights endpoints will return 503")
	}

	go sweepViewerCache(ctx, viewerCache)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(observability.Middleware)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()
	r.Use(rateLimiter.Middleware)

	routeAuth := routes.Auth{Middleware: authMiddleware, Profiles: profileService}
	routes.RegisterProfileRoutes(r, profileService, streakService, logService, commentService, routeAuth)
	routes.RegisterLogRoutes(r, logService, commentService, routeAuth)
	routes.RegisterUpvoteRoutes(r, upvoteService, routeAuth)
	routes.RegisterCircleRoutes(r, circleService, cfg.CORSAllowedOrigins, routeAuth)
	routes.RegisterOutreachRoutes(r, outreachService, routeAuth)
	routes.RegisterInsightsRoutes(r, insightsService, routeAuth)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Failed to write health response: %v", err)
		}
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("SkillLog API starting on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

func sweepViewerCache(ctx context.Context, cache *upvotes.ViewerCache) {
	ticker := time.NewTicker(cache.TTL())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := cache.Sweep(); n > 0 {
				slog.Debug("swept expired viewer upvote entries", "count", n)
			}
		}
	}
}
