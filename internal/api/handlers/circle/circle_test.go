package circle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SkillLog/internal/api/middleware"
	"SkillLog/internal/core/circles"
)

type mockCircleService struct {
	mock.Mock
}

func (m *mockCircleService) CreateCircle(ctx context.Context, userID string, req circles.CreateCircleRequest) (*circles.Circle, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*circles.Circle), args.Error(1)
}

func (m *mockCircleService) ListCircles(ctx context.Context, viewerID string) ([]*circles.Circle, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*circles.Circle), args.Error(1)
}

func (m *mockCircleService) GetCircle(ctx context.Context, name, viewerID string) (*circles.Circle, error) {
	args := m.Called(ctx, name, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*circles.Circle), args.Error(1)
}

func (m *mockCircleService) PostMessage(ctx context.Context, userID, name string, req circles.PostMessageRequest) (*circles.Message, error) {
	args := m.Called(ctx, userID, name, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*circles.Message), args.Error(1)
}

func (m *mockCircleService) ListMessages(ctx context.Context, name, viewerID string, limit int) ([]*circles.Message, error) {
	args := m.Called(ctx, name, viewerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*circles.Message), args.Error(1)
}

func (m *mockCircleService) Subscribe(ctx context.Context, name, viewerID string) (*circles.Subscription, error) {
	args := m.Called(ctx, name, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*circles.Subscription), args.Error(1)
}

// withUser wraps a handler with chi routing and an authenticated user
func withUser(pattern, method, userID string, fn http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if userID != "" {
			req = req.WithContext(middleware.SetTestUserID(req.Context(), userID))
		}
		fn(w, req)
	}))
	return r
}

func TestHandleCreate(t *testing.T) {
	svc := new(mockCircleService)
	svc.On("CreateCircle", mock.Anything, "user-1", circles.CreateCircleRequest{Name: "go-learners", Description: "gophers"}).
		Return(&circles.Circle{ID: "c1", Name: "go-learners", CreatedBy: "user-1"}, nil)

	h := NewHandler(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles", strings.NewReader(`{"name":"go-learners","description":"gophers"}`))
	w := httptest.NewRecorder()
	withUser("/api/v1/circles", http.MethodPost, "user-1", h.HandleCreate).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got circles.Circle
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "go-learners", got.Name)
}

func TestHandleCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "anonymous", body: `{"name":"x"}`, wantCode: http.StatusUnauthorized, wantErr: "AuthRequired"},
		{name: "bad body", userID: "user-1", body: `{`, wantCode: http.StatusBadRequest, wantErr: "InvalidRequest"},
		{name: "duplicate name", userID: "user-1", body: `{"name":"go"}`, err: circles.ErrCircleExists, wantCode: http.StatusConflict, wantErr: "CircleExists"},
		{name: "invalid name", userID: "user-1", body: `{"name":"go"}`, err: &circles.ValidationError{Field: "name", Message: "bad"}, wantCode: http.StatusBadRequest, wantErr: "InvalidRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockCircleService)
			if tt.err != nil {
				svc.On("CreateCircle", mock.Anything, tt.userID, mock.Anything).Return(nil, tt.err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/circles", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			withUser("/api/v1/circles", http.MethodPost, tt.userID, NewHandler(svc, nil).HandleCreate).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestHandleGet_PrivateCircleHidden(t *testing.T) {
	svc := new(mockCircleService)
	svc.On("GetCircle", mock.Anything, "secret", "user-2").Return(nil, circles.ErrCircleNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/circles/secret", nil)
	w := httptest.NewRecorder()
	withUser("/api/v1/circles/{name}", http.MethodGet, "user-2", NewHandler(svc, nil).HandleGet).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListMessages(t *testing.T) {
	svc := new(mockCircleService)
	svc.On("ListMessages", mock.Anything, "go", "", 25).Return([]*circles.Message{
		{ID: "m1", Content: "first"},
		{ID: "m2", Content: "second"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/circles/go/messages?limit=25", nil)
	w := httptest.NewRecorder()
	withUser("/api/v1/circles/{name}/messages", http.MethodGet, "", NewHandler(svc, nil).HandleListMessages).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Items []circles.Message `json:"items"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "m1", got.Items[0].ID)
}

func TestHandlePostMessage(t *testing.T) {
	svc := new(mockCircleService)
	svc.On("PostMessage", mock.Anything, "user-1", "go", circles.PostMessageRequest{Content: "hello"}).
		Return(&circles.Message{ID: "m1", CircleID: "c1", UserID: "user-1", Content: "hello"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles/go/messages", strings.NewReader(`{"content":"hello"}`))
	w := httptest.NewRecorder()
	withUser("/api/v1/circles/{name}/messages", http.MethodPost, "user-1", NewHandler(svc, nil).HandlePostMessage).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleStream(t *testing.T) {
	hub := circles.NewHub(4, nil)
	svc := new(mockCircleService)
	svc.On("Subscribe", mock.Anything, "go", "user-1").Return(hub.Subscribe("c1"), nil)

	server := httptest.NewServer(withUser("/circles/{name}/stream", http.MethodGet, "user-1", NewHandler(svc, nil).HandleStream))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/circles/go/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	assert.Equal(t, 1, hub.Broadcast(&circles.Message{ID: "m1", CircleID: "c1", Content: "live"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var got circles.Message
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "live", got.Content)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers("c1") == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHandleStream_UnknownCircle(t *testing.T) {
	svc := new(mockCircleService)
	svc.On("Subscribe", mock.Anything, "nope", "user-1").Return(nil, circles.ErrCircleNotFound)

	req := httptest.NewRequest(http.MethodGet, "/circles/nope/stream", nil)
	w := httptest.NewRecorder()
	withUser("/circles/{name}/stream", http.MethodGet, "user-1", NewHandler(svc, nil).HandleStream).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckOrigin(t *testing.T) {
	h := NewHandler(nil, []string{"https://app.skilllog.dev"})

	req := httptest.NewRequest(http.MethodGet, "http://api.skilllog.dev/stream", nil)
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "https://app.skilllog.dev")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://api.skilllog.dev")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.checkOrigin(req))
}
