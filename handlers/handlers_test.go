package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/team-league/lifecycle"
	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/services"
)

type mockLeagueService struct {
	mock.Mock
}

func (m *mockLeagueService) CreateLeague(ctx context.Context, input services.CreateLeagueInput) (*models.League, error) {
	args := m.Called(input)
	var l *models.League
	if args.Get(0) != nil {
		l = args.Get(0).(*models.League)
	}
	return l, args.Error(1)
}

func (m *mockLeagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	args := m.Called(id)
	var l *models.League
	if args.Get(0) != nil {
		l = args.Get(0).(*models.League)
	}
	return l, args.Error(1)
}

func (m *mockLeagueService) ListLeagues(ctx context.Context) ([]*models.League, error) {
	args := m.Called()
	var ls []*models.League
	if args.Get(0) != nil {
		ls = args.Get(0).([]*models.League)
	}
	return ls, args.Error(1)
}

func (m *mockLeagueService) CreateTeam(ctx context.Context, leagueID int, input services.CreateTeamInput) (*models.Team, error) {
	args := m.Called(leagueID, input)
	var t *models.Team
	if args.Get(0) != nil {
		t = args.Get(0).(*models.Team)
	}
	return t, args.Error(1)
}

func (m *mockLeagueService) ListTeams(ctx context.Context, leagueID int) ([]models.Team, error) {
	args := m.Called(leagueID)
	var ts []models.Team
	if args.Get(0) != nil {
		ts = args.Get(0).([]models.Team)
	}
	return ts, args.Error(1)
}

type mockWeekService struct {
	mock.Mock
}

func (m *mockWeekService) view(args mock.Arguments) (*services.WeekView, error) {
	var v *services.WeekView
	if args.Get(0) != nil {
		v = args.Get(0).(*services.WeekView)
	}
	return v, args.Error(1)
}

func (m *mockWeekService) CreateWeek(ctx context.Context, leagueID int, input services.CreateWeekInput) (*services.WeekView, error) {
	return m.view(m.Called(leagueID, input))
}

func (m *mockWeekService) GetWeek(ctx context.Context, weekID int) (*services.WeekView, error) {
	return m.view(m.Called(weekID))
}

func (m *mockWeekService) ListWeeks(ctx context.Context, leagueID int) ([]services.WeekView, error) {
	args := m.Called(leagueID)
	var ws []services.WeekView
	if args.Get(0) != nil {
		ws = args.Get(0).([]services.WeekView)
	}
	return ws, args.Error(1)
}

func (m *mockWeekService) ApplyAction(ctx context.Context, weekID int, action lifecycle.Action, force bool) (*services.WeekView, error) {
	return m.view(m.Called(weekID, action, force))
}

func (m *mockWeekService) DeleteWeek(ctx context.Context, weekID int) error {
	return m.Called(weekID).Error(0)
}

func (m *mockWeekService) DesignateFeature(ctx context.Context, weekID, teamID, userID int) (*services.WeekView, error) {
	return m.view(m.Called(weekID, teamID, userID))
}

func (m *mockWeekService) SelectDecks(ctx context.Context, weekID, userID int, deckIDs []string) (*models.DeckSelection, error) {
	args := m.Called(weekID, userID, deckIDs)
	var ds *models.DeckSelection
	if args.Get(0) != nil {
		ds = args.Get(0).(*models.DeckSelection)
	}
	return ds, args.Error(1)
}

func (m *mockWeekService) ReportGame(ctx context.Context, playerMatchupID int, input services.ReportGameInput) (*models.MatchGameInfo, error) {
	args := m.Called(playerMatchupID, input)
	var g *models.MatchGameInfo
	if args.Get(0) != nil {
		g = args.Get(0).(*models.MatchGameInfo)
	}
	return g, args.Error(1)
}

func (m *mockWeekService) AddStrike(ctx context.Context, playerMatchupID, strikerID int, deckID string) (*models.Strike, error) {
	args := m.Called(playerMatchupID, strikerID, deckID)
	var s *models.Strike
	if args.Get(0) != nil {
		s = args.Get(0).(*models.Strike)
	}
	return s, args.Error(1)
}

func (m *mockWeekService) SweepCompletion(ctx context.Context) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

type mockStandingsService struct {
	mock.Mock
}

func (m *mockStandingsService) GetStandings(ctx context.Context, leagueID int) (*services.StandingsView, error) {
	args := m.Called(leagueID)
	var v *services.StandingsView
	if args.Get(0) != nil {
		v = args.Get(0).(*services.StandingsView)
	}
	return v, args.Error(1)
}

func (m *mockStandingsService) GetPowerScore(ctx context.Context, leagueID, playerID, weekNumber int) (*services.PowerScoreView, error) {
	args := m.Called(leagueID, playerID, weekNumber)
	var v *services.PowerScoreView
	if args.Get(0) != nil {
		v = args.Get(0).(*services.PowerScoreView)
	}
	return v, args.Error(1)
}

func (m *mockStandingsService) GetSeeding(ctx context.Context, leagueID, weekNumber int) ([]models.PlayerSeed, error) {
	args := m.Called(leagueID, weekNumber)
	var s []models.PlayerSeed
	if args.Get(0) != nil {
		s = args.Get(0).([]models.PlayerSeed)
	}
	return s, args.Error(1)
}

type testServer struct {
	router    chi.Router
	leagues   *mockLeagueService
	weeks     *mockWeekService
	standings *mockStandingsService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		router:    chi.NewRouter(),
		leagues:   &mockLeagueService{},
		weeks:     &mockWeekService{},
		standings: &mockStandingsService{},
	}
	lh := NewLeagueHandler(s.leagues)
	wh := NewWeekHandler(s.weeks)
	sh := NewStandingsHandler(s.standings)

	s.router.Post("/leagues", lh.CreateLeague)
	s.router.Get("/leagues/{leagueID}", lh.GetLeague)
	s.router.Post("/leagues/{leagueID}/teams", lh.CreateTeam)
	s.router.Post("/leagues/{leagueID}/weeks", wh.CreateWeek)
	s.router.Get("/leagues/{leagueID}/standings", sh.GetStandings)
	s.router.Get("/leagues/{leagueID}/power-scores/{playerID}", sh.GetPowerScore)
	s.router.Get("/leagues/{leagueID}/seeding", sh.GetSeeding)
	s.router.Get("/weeks/{weekID}", wh.GetWeek)
	s.router.Delete("/weeks/{weekID}", wh.DeleteWeek)
	s.router.Post("/weeks/{weekID}/actions/{action}", wh.ApplyAction)
	s.router.Put("/weeks/{weekID}/decks/{userID}", wh.SelectDecks)
	s.router.Post("/player-matchups/{playerMatchupID}/games", wh.ReportGame)

	t.Cleanup(func() {
		s.leagues.AssertExpectations(t)
		s.weeks.AssertExpectations(t)
		s.standings.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateLeagueHandler(t *testing.T) {
	s := newTestServer(t)
	s.leagues.On("CreateLeague", services.CreateLeagueInput{Name: "Winter", TeamSize: 3}).
		Return(&models.League{ID: 1, Name: "Winter", TeamSize: 3, WeekBonusPoints: 2}, nil)

	rec := s.do(http.MethodPost, "/leagues", `{"name":"Winter","team_size":3}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	league := decode(t, rec)["league"].(map[string]any)
	assert.EqualValues(t, 1, league["id"])
	assert.EqualValues(t, 2, league["week_bonus_points"])
}

func TestReadJSONRejectsBadBodies(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"unknown field": `{"name":"Winter","colour":"red"}`,
		"malformed":     `{"name":`,
		"wrong type":    `{"name":1}`,
		"two values":    `{"name":"a"}{"name":"b"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/leagues", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestInvalidPathID(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/weeks/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/weeks/0", "").Code)
}

func TestGetWeekNotFound(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("GetWeek", 9).Return(nil, fmt.Errorf("loading week 9: %w", services.ErrWeekNotFound))

	rec := s.do(http.MethodGet, "/weeks/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "week not found")
}

func TestGetWeekIncludesLegalActions(t *testing.T) {
	s := newTestServer(t)
	week := models.LeagueWeek{ID: 5, LeagueID: 1, WeekNumber: 1, FormatType: models.FormatTriad, BestOfN: 1, Status: models.WeekStatusSetup}
	s.weeks.On("GetWeek", 5).Return(&services.WeekView{
		LeagueWeek:   week,
		LegalActions: []lifecycle.Action{lifecycle.ActionOpenSelection},
		CanDelete:    true,
	}, nil)

	rec := s.do(http.MethodGet, "/weeks/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)["week"].(map[string]any)
	assert.Equal(t, "setup", body["status"])
	assert.Equal(t, []any{"open_selection"}, body["legal_actions"])
	assert.Equal(t, true, body["can_delete"])
}

func TestApplyActionUnknownAction(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/weeks/5/actions/teleport", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyActionWithoutBody(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("ApplyAction", 5, lifecycle.ActionPublish, false).
		Return(&services.WeekView{LeagueWeek: models.LeagueWeek{ID: 5, Status: models.WeekStatusPublished}}, nil)

	rec := s.do(http.MethodPost, "/weeks/5/actions/publish", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplyActionPreconditionFailure(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("ApplyAction", 5, lifecycle.ActionGeneratePlayerMatchups, false).Return(nil, &lifecycle.PreconditionError{
		Action:         lifecycle.ActionGeneratePlayerMatchups,
		Reason:         "deck selections are incomplete",
		MissingPlayers: []string{"ben", "eve"},
		Overridable:    true,
	})

	rec := s.do(http.MethodPost, "/weeks/5/actions/generate_player_matchups", `{"force":false}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, []any{"ben", "eve"}, body["missing_players"])
	assert.Equal(t, []any{}, body["missing_teams"])
	assert.Equal(t, true, body["retry_with_force"])
	assert.Equal(t, "generate_player_matchups", body["action"])
}

func TestApplyActionForce(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("ApplyAction", 5, lifecycle.ActionGeneratePlayerMatchups, true).
		Return(&services.WeekView{LeagueWeek: models.LeagueWeek{ID: 5, Status: models.WeekStatusPairing}}, nil)

	rec := s.do(http.MethodPost, "/weeks/5/actions/generate_player_matchups", `{"force":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pairing", decode(t, rec)["week"].(map[string]any)["status"])
}

func TestApplyActionInvalidTransition(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("ApplyAction", 5, lifecycle.ActionPublish, false).Return(nil, &lifecycle.TransitionError{
		Status: models.WeekStatusSetup,
		Format: models.FormatTriad,
		Action: lifecycle.ActionPublish,
		Legal:  []lifecycle.Action{lifecycle.ActionOpenSelection},
	})

	rec := s.do(http.MethodPost, "/weeks/5/actions/publish", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []any{"open_selection"}, body["legal_actions"])
	assert.Equal(t, "setup", body["status"])
}

func TestDeleteWeekHandler(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("DeleteWeek", 5).Return(nil)
	s.weeks.On("DeleteWeek", 6).Return(services.ErrWeekNotDeletable)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/weeks/5", "").Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/weeks/6", "").Code)
}

func TestSelectDecksHandler(t *testing.T) {
	s := newTestServer(t)
	s.weeks.On("SelectDecks", 5, 11, []string{"a", "b", "c"}).
		Return(&models.DeckSelection{WeekID: 5, UserID: 11, DeckIDs: []string{"a", "b", "c"}}, nil)
	s.weeks.On("SelectDecks", 5, 12, []string{"a", "b", "c", "d"}).
		Return(nil, fmt.Errorf("%w: triad takes 3, got 4", services.ErrTooManyDecks))

	rec := s.do(http.MethodPut, "/weeks/5/decks/11", `{"deck_ids":["a","b","c"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/weeks/5/decks/12", `{"deck_ids":["a","b","c","d"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReportGameHandler(t *testing.T) {
	s := newTestServer(t)
	input := services.ReportGameInput{GameNumber: 1, WinnerID: 11, Player1Keys: 3}
	s.weeks.On("ReportGame", 500, input).Return(&models.MatchGameInfo{ID: 1, PlayerMatchupID: 500, GameNumber: 1, WinnerID: 11}, nil)
	s.weeks.On("ReportGame", 501, mock.Anything).Return(nil, services.ErrGameNumberConflict)

	rec := s.do(http.MethodPost, "/player-matchups/500/games", `{"game_number":1,"winner_id":11,"player1_keys":3}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/player-matchups/501/games", `{"game_number":1,"winner_id":11}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStandingsHandlers(t *testing.T) {
	s := newTestServer(t)
	s.standings.On("GetStandings", 1).Return(&services.StandingsView{
		LeagueID:  1,
		Standings: []models.TeamStanding{{TeamID: 2, TeamName: "Blue", WeekPoints: map[int]int{1: 4}, Total: 4}},
	}, nil)
	s.standings.On("GetPowerScore", 1, 11, 2).Return(&services.PowerScoreView{LeagueID: 1, PlayerID: 11, WeekNumber: 2, PowerScore: 1.01}, nil)
	s.standings.On("GetSeeding", 1, 2).Return([]models.PlayerSeed{{PlayerID: 11, WeekNumber: 2, PowerScore: 1.01}}, nil)

	rec := s.do(http.MethodGet, "/leagues/1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode(t, rec)["standings"].([]any)
	assert.EqualValues(t, 4, rows[0].(map[string]any)["total"])

	rec = s.do(http.MethodGet, "/leagues/1/power-scores/11?week=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1.01, decode(t, rec)["power_score"], 1e-9)

	rec = s.do(http.MethodGet, "/leagues/1/seeding?week=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["players"], 1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/leagues/1/seeding", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/leagues/1/seeding?week=x", "").Code)
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	s := newTestServer(t)
	s.leagues.On("GetLeague", 1).Return(nil, errors.New("pq: connection refused"))

	rec := s.do(http.MethodGet, "/leagues/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrLeagueNotFound, http.StatusNotFound},
		{services.ErrPlayerMatchupNotFound, http.StatusNotFound},
		{services.ErrLeagueNameConflict, http.StatusConflict},
		{services.ErrWeekStatusConflict, http.StatusConflict},
		{services.ErrReportingClosed, http.StatusConflict},
		{services.ErrMatchupDecided, http.StatusConflict},
		{services.ErrTeamNameRequired, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", lifecycle.ErrUnknownAction, "x"), http.StatusBadRequest},
		{fmt.Errorf("%w: team_size must be positive", services.ErrValidationFailed), http.StatusUnprocessableEntity},
		{services.ErrInvalidWinner, http.StatusUnprocessableEntity},
		{services.ErrUserNotInLeague, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
