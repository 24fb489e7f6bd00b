package logs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/logs"
)

// Handler serves learning log endpoints
type Handler struct {
	service logs.Service
}

// NewHandler creates a log handler
func NewHandler(service logs.Service) *Handler {
	return &Handler{service: service}
}

// HandleListFeed returns the public feed
// GET /api/v1/logs?sort=recent|top&tag=go&limit=20&offset=0
func (h *Handler) HandleListFeed(w http.ResponseWriter, r *http.Request) {
	limit, offset := common.Page(r)
	q := r.URL.Query()

	entries, err := h.service.ListFeed(r.Context(), logs.FeedQuery{
		ViewerID: middleware.GetUserID(r),
		Sort:     logs.FeedSort(q.Get("sort")),
		Tag:      q.Get("tag"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: entries})
}

// HandleCreate records a new log entry for the caller
// POST /api/v1/logs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req logs.CreateLogRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	entry, err := h.service.CreateLog(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, entry)
}

// HandleGet returns one log
// GET /api/v1/logs/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetLog(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, entry)
}

// HandleDelete deletes one of the caller's logs
// DELETE /api/v1/logs/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.DeleteLog(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListByUser returns a user's logs. Private logs are included only for the owner.
// GET /api/v1/profiles/{id}/logs
func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := common.Page(r)

	entries, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: entries})
}
