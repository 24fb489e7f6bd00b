package comments

import (
	"errors"
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/comments"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comments.ErrLogNotFound):
		handlers.WriteError(w, http.StatusNotFound, "LogNotFound", "Log not found")
	case errors.Is(err, comments.ErrCommentNotFound):
		handlers.WriteError(w, http.StatusNotFound, "CommentNotFound", "Comment not found")
	case errors.Is(err, comments.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case comments.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Comment handler", err)
	}
}
