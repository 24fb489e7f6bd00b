package insights

import (
	"net/http"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/insights"
)

// Handler serves the generative endpoints. A nil service means no generator
// is configured and every endpoint answers 503.
type Handler struct {
	service insights.Service
}

// NewHandler creates an insights handler
func NewHandler(service insights.Service) *Handler {
	return &Handler{service: service}
}

// ChatRequest is the body of POST /api/v1/insights/chat
type ChatRequest struct {
	Message string              `json:"message"`
	History []insights.ChatTurn `json:"history"`
}

// ChatResponse carries the generated reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SearchRequest is the body of POST /api/v1/insights/search
type SearchRequest struct {
	Query         string `json:"query"`
	MinReputation int    `json:"minReputation"`
}

func (h *Handler) available(w http.ResponseWriter) bool {
	if h.service == nil {
		handlers.WriteError(w, http.StatusServiceUnavailable, "InsightsUnavailable", "Text generation is not configured")
		return false
	}
	return true
}

// HandleReport generates a Proof of Skill report from the caller's logs
// POST /api/v1/insights/report
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	report, err := h.service.SynthesisReport(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, report)
}

// HandleChat continues a mentor chat
// POST /api/v1/insights/chat
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req ChatRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// HandleSearch runs a talent search over open-to-work developers
// POST /api/v1/insights/search
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req SearchRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	matches, err := h.service.SearchDevelopers(r.Context(), req.Query, req.MinReputation)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: matches})
}

// HandleSpotlights regenerates spotlights for the top developers
// POST /api/v1/insights/spotlights?limit=5
func (h *Handler) HandleSpotlights(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	limit, _ := common.Page(r)
	updated, err := h.service.GenerateSpotlights(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.ListResponse{Items: updated})
}
