package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/insights"
	insightsCore "SkillLog/internal/core/insights"
)

// RegisterInsightsRoutes registers the generative endpoints. A nil service
// keeps the routes but answers 503.
func RegisterInsightsRoutes(r chi.Router, service insightsCore.Service, auth Auth) {
	handler := insights.NewHandler(service)

	r.With(auth.required()...).Post("/api/v1/insights/report", handler.HandleReport)
	r.With(auth.required()...).Post("/api/v1/insights/chat", handler.HandleChat)

	// Talent search and spotlights are recruiter tools
	r.With(auth.recruiter()...).Post("/api/v1/insights/search", handler.HandleSearch)
	r.With(auth.recruiter()...).Post("/api/v1/insights/spotlights", handler.HandleSpotlights)
}
