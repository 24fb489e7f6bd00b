package outreach

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/outreach"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case outreach.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", err.Error())
	case outreach.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "DeveloperNotFound", "Developer not found")
	case outreach.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Outreach handler", err)
	}
}
