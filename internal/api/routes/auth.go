package routes

import (
	"net/http"

	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/profiles"
)

// Auth bundles the middleware shared by every route group
type Auth struct {
	Middleware *middleware.AuthMiddleware
	Profiles   middleware.ProfileEnsurer
}

// required authenticates the caller and makes sure their profile row exists
func (a Auth) required() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		a.Middleware.RequireAuth,
		middleware.EnsureProfile(a.Profiles),
	}
}

// recruiter is required plus a recruiter role claim
func (a Auth) recruiter() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		a.Middleware.RequireAuth,
		middleware.RequireRole(profiles.RoleRecruiter),
		middleware.EnsureProfile(a.Profiles),
	}
}

func (a Auth) optional() func(http.Handler) http.Handler {
	return a.Middleware.OptionalAuth
}
