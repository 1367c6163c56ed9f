package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/team-league/handlers"
	"github.com/Dosada05/team-league/middleware"
)

// Сервисы не нужны: запросы отклоняются до обращения к ним.
func newTestRouter(burst int) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	SetupRoutes(
		router,
		Options{
			AllowedOrigins: []string{"*"},
			RequestLogger:  middleware.RequestLogger(logger),
			RateLimiter:    middleware.NewRateLimiter(0.001, burst, logger),
		},
		handlers.NewLeagueHandler(nil),
		handlers.NewWeekHandler(nil),
		handlers.NewStandingsHandler(nil),
		handlers.NewWebSocketHandler(nil, nil, []string{"*"}, logger),
	)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "198.51.100.4:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	router := newTestRouter(1)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/v1/leagues", "{").Code)
	rec := serve(router, http.MethodPost, "/api/v1/leagues", "{")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Бюджет общий для всех изменяющих маршрутов клиента.
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "/api/v1/weeks/1/actions/publish", "").Code)
}

func TestReadRoutesAreNotRateLimited(t *testing.T) {
	router := newTestRouter(1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/v1/weeks/abc", "").Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(1)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/teams", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodPatch, "/api/v1/weeks/1", "").Code)
}

func TestSwaggerDocIsServed(t *testing.T) {
	router := newTestRouter(1)

	rec := serve(router, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Team League API")
	assert.Contains(t, rec.Body.String(), "/weeks/{weekID}/actions/{action}")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(1)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/leagues", nil)
	req.Header.Set("Origin", "https://league.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
