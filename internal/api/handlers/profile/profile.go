package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"SkillLog/internal/api/handlers"
	"SkillLog/internal/api/handlers/common"
	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/streaks"
)

// Handler serves profile and streak endpoints
type Handler struct {
	profiles profiles.Service
	streaks  streaks.Service
}

// NewHandler creates a profile handler
func NewHandler(profileService profiles.Service, streakService streaks.Service) *Handler {
	return &Handler{profiles: profileService, streaks: streakService}
}

// HandleGetMe returns the caller's profile
// GET /api/v1/profiles/me
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}

// HandleUpdateMe updates the caller's profile
// PUT /api/v1/profiles/me
//
// Request body: { "fullName"?: string, "avatarUrl"?: string, "isOpenToWork"?: bool }
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req profiles.UpdateProfileRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	p, err := h.profiles.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}

// HandleGet returns any user's profile
// GET /api/v1/profiles/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}

// HandleGetStreak returns a user's current logging streak
// GET /api/v1/profiles/{id}/streak?tz=Europe/Berlin
func (h *Handler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.streaks.GetStreak(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("tz"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, streak)
}
