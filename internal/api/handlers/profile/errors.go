package profile

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/streaks"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case profiles.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "ProfileNotFound", "Profile not found")
	case streaks.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case profiles.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Profile handler", err)
	}
}
