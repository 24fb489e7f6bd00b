package logs

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/logs"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case logs.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "LogNotFound", "Log not found")
	case err == logs.ErrNotAuthorized:
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", "Only the author can do this")
	case logs.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Log handler", err)
	}
}
