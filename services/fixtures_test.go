package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/pairing"
	"github.com/Dosada05/team-league/realtime"
	"github.com/Dosada05/team-league/repositories/mockrepo"
	"github.com/Dosada05/team-league/storage"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.Message
	room []string
}

func (p *recordingPublisher) BroadcastToRoom(roomID string, message realtime.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = append(p.room, roomID)
	p.msgs = append(p.msgs, message)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Type
	}
	return out
}

func (p *recordingPublisher) last(msgType string) (realtime.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.msgs) - 1; i >= 0; i-- {
		if p.msgs[i].Type == msgType {
			return p.msgs[i], true
		}
	}
	return realtime.Message{}, false
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	args := m.Called(key, contentType)

	var r *storage.UploadResult
	if args.Get(0) != nil {
		r = args.Get(0).(*storage.UploadResult)
	}
	return r, args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *mockUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type testEnv struct {
	leagues    *mockrepo.LeagueRepository
	teams      *mockrepo.TeamRepository
	weeks      *mockrepo.WeekRepository
	matchups   *mockrepo.MatchupRepository
	selections *mockrepo.SelectionRepository
	tx         *mockrepo.Transactor
	pub        *recordingPublisher

	loader    *SnapshotLoader
	standings *standingsService
	weekSvc   *weekService
	leagueSvc *leagueService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		leagues:    &mockrepo.LeagueRepository{},
		teams:      &mockrepo.TeamRepository{},
		weeks:      &mockrepo.WeekRepository{},
		matchups:   &mockrepo.MatchupRepository{},
		selections: &mockrepo.SelectionRepository{},
		tx:         &mockrepo.Transactor{},
		pub:        &recordingPublisher{},
	}
	env.loader = NewSnapshotLoader(env.leagues, env.teams, env.weeks, env.matchups, env.selections)

	env.standings = NewStandingsService(env.loader, testLogger()).(*standingsService)
	env.standings.now = func() time.Time { return fixedNow }

	env.weekSvc = NewWeekService(
		env.leagues, env.teams, env.weeks, env.matchups, env.selections,
		env.tx, env.loader, pairing.NewRoundRobinPairer(), env.standings, nil, env.pub, testLogger(),
	).(*weekService)
	env.weekSvc.now = func() time.Time { return fixedNow }

	env.leagueSvc = NewLeagueService(env.leagues, env.teams, env.tx, env.loader, testLogger()).(*leagueService)

	t.Cleanup(func() {
		env.leagues.AssertExpectations(t)
		env.teams.AssertExpectations(t)
		env.weeks.AssertExpectations(t)
		env.matchups.AssertExpectations(t)
		env.selections.AssertExpectations(t)
		env.tx.AssertExpectations(t)
	})
	return env
}

func testLeague() *models.League {
	return &models.League{ID: 1, Name: "Winter League", TeamSize: 3, NumTeams: 4, WeekBonusPoints: 2}
}

func testTeams() []models.Team {
	return []models.Team{
		{ID: 1, LeagueID: 1, Name: "Red", Members: []models.TeamMember{
			{UserID: 11, Username: "ann", IsCaptain: true}, {UserID: 12, Username: "ben"}, {UserID: 13, Username: "cat"},
		}},
		{ID: 2, LeagueID: 1, Name: "Blue", Members: []models.TeamMember{
			{UserID: 21, Username: "dan", IsCaptain: true}, {UserID: 22, Username: "eve"}, {UserID: 23, Username: "fay"},
		}},
	}
}

func testWeek(status models.WeekStatus) models.LeagueWeek {
	return models.LeagueWeek{
		ID:         5,
		LeagueID:   1,
		WeekNumber: 1,
		FormatType: models.FormatArchonStandard,
		BestOfN:    1,
		Status:     status,
	}
}

func bothFeatures() []models.FeatureDesignation {
	return []models.FeatureDesignation{{WeekID: 5, TeamID: 1, UserID: 11}, {WeekID: 5, TeamID: 2, UserID: 21}}
}

func game(pmID, number, winner int) models.MatchGameInfo {
	return models.MatchGameInfo{PlayerMatchupID: pmID, GameNumber: number, WinnerID: winner, ReportedAt: fixedNow}
}

// playedMatchup is team 1 vs team 2 with the feature pair first. winners
// holds one game winner per player matchup, zero for none.
func playedMatchup(winners ...int) models.WeekMatchup {
	pairs := [][2]int{{11, 21}, {12, 22}, {13, 23}}
	wm := models.WeekMatchup{ID: 50, WeekID: 5, Team1ID: 1, Team2ID: 2}
	for i, p := range pairs {
		pm := models.PlayerMatchupInfo{
			ID:            500 + i,
			WeekMatchupID: 50,
			Player1ID:     p[0],
			Player2ID:     p[1],
			IsFeature:     i == 0,
			Games:         []models.MatchGameInfo{},
		}
		if i < len(winners) && winners[i] != 0 {
			pm.Games = append(pm.Games, game(pm.ID, 1, winners[i]))
		}
		wm.PlayerMatchups = append(wm.PlayerMatchups, pm)
	}
	return wm
}

// expectLoadWeek stubs every query LoadWeek issues for week.
func (env *testEnv) expectLoadWeek(week models.LeagueWeek, matchups []models.WeekMatchup, features []models.FeatureDesignation, decks []models.DeckSelection) {
	w := week
	env.weeks.On("GetByID", mock.Anything, mock.Anything, week.ID).Return(&w, nil)
	env.expectPopulate(week.ID, matchups, features, decks)
}

func (env *testEnv) expectPopulate(weekID int, matchups []models.WeekMatchup, features []models.FeatureDesignation, decks []models.DeckSelection) {
	env.matchups.On("ListByWeekIDs", mock.Anything, mock.Anything, []int{weekID}).
		Return(map[int][]models.WeekMatchup{weekID: matchups}, nil)
	env.selections.On("ListFeatures", mock.Anything, mock.Anything, []int{weekID}).
		Return(map[int][]models.FeatureDesignation{weekID: features}, nil)
	env.selections.On("ListDeckSelections", mock.Anything, mock.Anything, []int{weekID}).
		Return(map[int][]models.DeckSelection{weekID: decks}, nil)
}

// expectLeagueSnapshot stubs the queries of a full league load.
func (env *testEnv) expectLeagueSnapshot(weeks []models.LeagueWeek) {
	env.leagues.On("GetByID", mock.Anything, mock.Anything, 1).Return(testLeague(), nil)
	env.teams.On("ListByLeague", mock.Anything, mock.Anything, 1).Return(testTeams(), nil)
	env.weeks.On("ListByLeague", mock.Anything, mock.Anything, 1).Return(weeks, nil)
}
