package circle

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/circles"
)

// Handler serves circle endpoints
type Handler struct {
	service        circles.Service
	allowedOrigins map[string]struct{}
}

// NewHandler creates a circle handler. allowedOrigins restricts which browser
// origins may open a stream; an empty list allows same-origin requests only.
func NewHandler(service circles.Service, allowedOrigins []string) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{service: service, allowedOrigins: origins}
}

// HandleList returns the circles visible to the caller
// GET /api/v1/circles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCircles(r.Context(), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: list})
}

// HandleCreate creates a circle
// POST /api/v1/circles
//
// Request body: { "name": "go-learners", "description": "...", "isPrivate": false }
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req circles.CreateCircleRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	circle, err := h.service.CreateCircle(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, circle)
}

// HandleGet returns one circle
// GET /api/v1/circles/{name}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	circle, err := h.service.GetCircle(r.Context(), chi.URLParam(r, "name"), middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, circle)
}

// HandleListMessages returns the most recent messages, oldest first
// GET /api/v1/circles/{name}/messages?limit=100
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.service.ListMessages(r.Context(), chi.URLParam(r, "name"), middleware.GetUserID(r), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: msgs})
}

// HandlePostMessage posts a message and fans it out to stream subscribers
// POST /api/v1/circles/{name}/messages
//
// Request body: { "content": "..." }
func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req circles.PostMessageRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	msg, err := h.service.PostMessage(r.Context(), userID, chi.URLParam(r, "name"), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}
