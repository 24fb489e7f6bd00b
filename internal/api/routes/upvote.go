package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/upvote"
	"SkillLog/internal/core/upvotes"
)

// RegisterUpvoteRoutes registers upvote endpoints. Both require authentication.
func RegisterUpvoteRoutes(r chi.Router, service upvotes.Service, auth Auth) {
	handler := upvote.NewHandler(service)

	// POST /api/v1/upvotes
	// Body: {"itemId", "itemType", "authorId", "upvoted"}. Omitting upvoted flips the current state.
	r.With(auth.required()...).Post("/api/v1/upvotes", handler.HandleSet)

	// GET /api/v1/upvotes/mine?type=log|comment
	r.With(auth.required()...).Get("/api/v1/upvotes/mine", handler.HandleListMine)
}
