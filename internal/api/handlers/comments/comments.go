package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/comments"
)

// Handler serves comment endpoints
type Handler struct {
	service comments.Service
}

// NewHandler creates a comment handler
func NewHandler(service comments.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate adds a comment to a log
// POST /api/v1/logs/{id}/comments
//
// Request body: { "content": "..." }
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req comments.CreateCommentRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, comment)
}

// HandleListByLog returns the comments on a log, oldest first
// GET /api/v1/logs/{id}/comments
func (h *Handler) HandleListByLog(w http.ResponseWriter, r *http.Request) {
	limit, offset := common.Page(r)

	list, err := h.service.ListByLog(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: list})
}

// HandleListByUser returns a user's comments
// GET /api/v1/profiles/{id}/comments
func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := common.Page(r)

	list, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: list})
}
