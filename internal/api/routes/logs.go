package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/comments"
	"SkillLog/internal/api/handlers/logs"
	commentsCore "SkillLog/internal/core/comments"
	logsCore "SkillLog/internal/core/logs"
)

// RegisterLogRoutes registers learning log and comment endpoints
func RegisterLogRoutes(r chi.Router, logService logsCore.Service, commentService commentsCore.Service, auth Auth) {
	logHandler := logs.NewHandler(logService)
	commentHandler := comments.NewHandler(commentService)

	// GET /api/v1/logs?sort=recent|top&tag=go
	// Optional auth fills in the viewer's upvote state
	r.With(auth.optional()).Get("/api/v1/logs", logHandler.HandleListFeed)
	r.With(auth.optional()).Get("/api/v1/logs/{id}", logHandler.HandleGet)
	r.With(auth.optional()).Get("/api/v1/logs/{id}/comments", commentHandler.HandleListByLog)

	r.With(auth.required()...).Post("/api/v1/logs", logHandler.HandleCreate)
	r.With(auth.required()...).Delete("/api/v1/logs/{id}", logHandler.HandleDelete)
	r.With(auth.required()...).Post("/api/v1/logs/{id}/comments", commentHandler.HandleCreate)
}
