package routes

import (
	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers/circle"
	"SkillLog/internal/core/circles"
)

// RegisterCircleRoutes registers circle chat endpoints
func RegisterCircleRoutes(r chi.Router, service circles.Service, allowedOrigins []string, auth Auth) {
	handler := circle.NewHandler(service, allowedOrigins)

	r.With(auth.optional()).Get("/api/v1/circles", handler.HandleList)
	r.With(auth.optional()).Get("/api/v1/circles/{name}", handler.HandleGet)
	r.With(auth.optional()).Get("/api/v1/circles/{name}/messages", handler.HandleListMessages)

	r.With(auth.required()...).Post("/api/v1/circles", handler.HandleCreate)
	r.With(auth.required()...).Post("/api/v1/circles/{name}/messages", handler.HandlePostMessage)

	// Websocket upgrade; the token travels in the Authorization header of the handshake
	r.With(auth.required()...).Get("/api/v1/circles/{name}/stream", handler.HandleStream)
}
