package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func newTestLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(rps, burst, slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.now = func() time.Time { return now }
	return l, &now
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	l, now := newTestLimiter(1, 2)
	h := l.Handler(okHandler)

	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5001").Code)

	rec := hit(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())

	// Другой клиент со своим бюджетом.
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.2:5000").Code)

	*now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, hit(h, "10.0.0.1:5003").Code)
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	l, now := newTestLimiter(1, 1)
	h := l.Handler(okHandler)

	hit(h, "10.0.0.1:1")
	hit(h, "10.0.0.2:1")
	assert.Equal(t, 2, l.Visitors())

	*now = now.Add(idleAfter + time.Minute)
	hit(h, "10.0.0.3:1")
	assert.Equal(t, 1, l.Visitors())
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4431"
	assert.Equal(t, "192.0.2.7", clientKey(req))

	req.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", clientKey(req))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks/9", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/weeks/9", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
	assert.EqualValues(t, 7, entry["bytes"])
}

func TestRequestLoggerDefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 200, entry["status"])
}
