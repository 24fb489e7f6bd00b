package upvote

import (
	"errors"
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/core/upvotes"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case upvotes.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "ItemNotFound", "The log or comment was not found")
	case errors.Is(err, upvotes.ErrAuthorMismatch):
		handlers.WriteError(w, http.StatusBadRequest, "AuthorMismatch", "authorId does not match the item's author")
	case errors.Is(err, upvotes.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case upvotes.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		handlers.WriteInternalError(w, "Upvote handler", err)
	}
}
