package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/comments"
	"SkillLog/internal/api/handlers/logs"
	"SkillLog/internal/api/handlers/profile"
	commentsCore "SkillLog/internal/core/comments"
	logsCore "SkillLog/internal/core/logs"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/streaks"
)

// RegisterProfileRoutes registers profile endpoints, including the per-user
// log and comment listings
func RegisterProfileRoutes(
	r chi.Router,
	profileService profiles.Service,
	streakService streaks.Service,
	logService logsCore.Service,
	commentService commentsCore.Service,
	auth Auth,
) {
	profileHandler := profile.NewHandler(profileService, streakService)
	logHandler := logs.NewHandler(logService)
	commentHandler := comments.NewHandler(commentService)

	r.With(auth.required()...).Get("/api/v1/profiles/me", profileHandler.HandleGetMe)
	r.With(auth.required()...).Put("/api/v1/profiles/me", profileHandler.HandleUpdateMe)

	// Public reads, optional auth so private logs show to their owner
	r.With(auth.optional()).Get("/api/v1/profiles/{id}", profileHandler.HandleGet)
	r.With(auth.optional()).Get("/api/v1/profiles/{id}/streak", profileHandler.HandleGetStreak)
	r.With(auth.optional()).Get("/api/v1/profiles/{id}/logs", logHandler.HandleListByUser)
	r.With(auth.optional()).Get("/api/v1/profiles/{id}/comments", commentHandler.HandleListByUser)
}
