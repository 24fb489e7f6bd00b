package circle

import (
	"errors"
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/circles"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case circles.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "CircleNotFound", "Circle not found")
	case circles.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "CircleExists", "A circle with this name already exists")
	case errors.Is(err, circles.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case circles.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Circle handler", err)
	}
}
