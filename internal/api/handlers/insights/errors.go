package insights

import (
	"log"
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/insights"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case insights.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case insights.IsGenerationError(err):
		log.Printf("Text generation failed: %v", err)
		handlers.WriteError(w, http.StatusBadGateway, "GenerationFailed", "Text generation failed, try again later")
	default:
		handlers.WriteInternalError(w, "Insights handler", err)
	}
}
