package outreach

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/outreach"
)

// Handler serves recruiter outreach endpoints
type Handler struct {
	service outreach.Service
}

// NewHandler creates an outreach handler
func NewHandler(service outreach.Service) *Handler {
	return &Handler{service: service}
}

// HandleSend sends a message from the calling recruiter to a developer
// POST /api/v1/outreach
//
// Request body: { "developerId": "...", "message": "..." }
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req outreach.SendRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	msg, err := h.service.SendOutreach(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

// HandleListInbox returns outreach received by the caller, newest first
// GET /api/v1/outreach/inbox?limit=20&offset=0
func (h *Handler) HandleListInbox(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	limit, offset := common.Page(r)
	msgs, err := h.service.ListInbox(r.Context(), userID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: msgs})
}
