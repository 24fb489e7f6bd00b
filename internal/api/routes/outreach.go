package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/outreach"
	outreachCore "SkillLog/internal/core/outreach"
)

// RegisterOutreachRoutes registers recruiter outreach endpoints
func RegisterOutreachRoutes(r chi.Router, service outreachCore.Service, auth Auth) {
	handler := outreach.NewHandler(service)

	r.With(auth.recruiter()...).Post("/api/v1/outreach", handler.HandleSend)
	r.With(auth.required()...).Get("/api/v1/outreach/inbox", handler.HandleListInbox)
}
