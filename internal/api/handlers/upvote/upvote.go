package upvote

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/core/upvotes"
)

// Handler serves upvote endpoints
type Handler struct {
	service upvotes.Service
}

// NewHandler creates an upvote handler
func NewHandler(service upvotes.Service) *Handler {
	return &Handler{service: service}
}

// HandleSet applies an upvote change
// POST /api/v1/upvotes
//
// Request body: { "itemId": "...", "itemType": "log"|"comment", "authorId": "...", "upvoted"?: bool }
// Without "upvoted" the current state is flipped.
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	voterID := middleware.GetUserID(r)
	if voterID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req upvotes.SetUpvoteRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	result, err := h.service.SetUpvote(r.Context(), voterID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}

// HandleListMine returns the ids the caller has upvoted
// GET /api/v1/upvotes/mine?type=log|comment
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	voterID := middleware.GetUserID(r)
	if voterID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var itemType toggles.ItemType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := toggles.ParseItemType(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		itemType = parsed
	}

	ids, err := h.service.ListUpvoted(r.Context(), voterID, itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: ids})
}
