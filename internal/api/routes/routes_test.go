package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SkillLog/internal/api/middleware"
	"SkillLog/internal/auth"
	"SkillLog/internal/core/profiles"
)

var testSecret = []byte("routes-test-secret")

type countingEnsurer struct {
	calls int
}

func (c *countingEnsurer) EnsureProfile(_ context.Context, id, email string, role profiles.Role) (*profiles.Profile, error) {
	c.calls++
	return &profiles.Profile{ID: id, Role: role}, nil
}

func newTestRouter(ensurer middleware.ProfileEnsurer) chi.Router {
	a := Auth{
		Middleware: middleware.NewAuthMiddleware(auth.NewVerifier(testSecret, "skilllog", nil)),
		Profiles:   ensurer,
	}
	r := chi.NewRouter()
	RegisterProfileRoutes(r, nil, nil, nil, nil, a)
	RegisterLogRoutes(r, nil, nil, a)
	RegisterUpvoteRoutes(r, nil, a)
	RegisterCircleRoutes(r, nil, nil, a)
	RegisterOutreachRoutes(r, nil, a)
	RegisterInsightsRoutes(r, nil, a)
	return r
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, err := auth.NewToken(testSecret, "skilllog", subject, subject+"@example.com", role, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestRoutes_Registered(t *testing.T) {
	var got []string
	err := chi.Walk(newTestRouter(&countingEnsurer{}), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(got)

	for _, want := range []string{
		"GET /api/v1/profiles/me",
		"PUT /api/v1/profiles/me",
		"GET /api/v1/profiles/{id}/streak",
		"GET /api/v1/logs",
		"DELETE /api/v1/logs/{id}",
		"POST /api/v1/logs/{id}/comments",
		"POST /api/v1/upvotes",
		"GET /api/v1/upvotes/mine",
		"GET /api/v1/circles/{name}/stream",
		"POST /api/v1/outreach",
		"GET /api/v1/outreach/inbox",
		"POST /api/v1/insights/search",
	} {
		assert.Contains(t, got, want)
	}
}

func TestRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(&countingEnsurer{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/logs"},
		{http.MethodPost, "/api/v1/upvotes"},
		{http.MethodGet, "/api/v1/upvotes/mine"},
		{http.MethodPost, "/api/v1/circles"},
		{http.MethodGet, "/api/v1/circles/go/stream"},
		{http.MethodPost, "/api/v1/outreach"},
		{http.MethodPost, "/api/v1/insights/chat"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRoutes_RecruiterOnly(t *testing.T) {
	ensurer := &countingEnsurer{}
	router := newTestRouter(ensurer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/search", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "dev-1", "developer"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, ensurer.calls)
}

func TestRoutes_EnsuresProfileBeforeHandler(t *testing.T) {
	ensurer := &countingEnsurer{}
	router := newTestRouter(ensurer)

	// No generator configured, so the handler itself answers 503
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/spotlights", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "rec-1", "recruiter"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1, ensurer.calls)
}
