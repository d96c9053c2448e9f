package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"status": "VERIFIED"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "VERIFIED", body.Data["status"])
}

func TestErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithCode(rec, http.StatusConflict, "REVIEW_ALREADY_DECIDED", "Review already decided", errors.New("conflict"))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "REVIEW_ALREADY_DECIDED", body.Code)
	assert.Equal(t, "conflict", body.Error)
}

func TestError_NilErrUsesStatusText(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Pensioner not found")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.Error)
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_ObservesRouteTemplate(t *testing.T) {
	var (
		gotRoute  string
		gotStatus int
	)
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(func(method, route string, status int, elapsed time.Duration) {
		gotRoute = route
		gotStatus = status
	}))
	router.HandleFunc("/pensioners/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pensioners/42", nil))

	assert.Equal(t, "/pensioners/{id}", gotRoute)
	assert.Equal(t, http.StatusTeapot, gotStatus)
}
