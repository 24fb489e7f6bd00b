package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteError_EscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusForbidden, "Forbidden", `role "recruiter" required`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, ErrorResponse{Error: "Forbidden", Message: `role "recruiter" required`}, decodeError(t, w))
}

func TestWriteInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalError(w, "Test handler", errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "InternalServerError", resp.Error)
	assert.NotContains(t, resp.Message, "pq")
}

func TestWriteBodyError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteBodyError(w, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", decodeError(t, w).Error)

	w = httptest.NewRecorder()
	WriteBodyError(w, fmt.Errorf("decode: %w", &http.MaxBytesError{Limit: 1 << 20}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PayloadTooLarge", decodeError(t, w).Error)
}
