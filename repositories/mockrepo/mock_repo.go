package mockrepo

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/repositories"
)

type LeagueRepository struct {
	mock.Mock
}

func (m *LeagueRepository) Create(ctx context.Context, exec repositories.SQLExecutor, league *models.League) error {
	args := m.Called(ctx, exec, league)
	return args.Error(0)
}

func (m *LeagueRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.League, error) {
	args := m.Called(ctx, exec, id)

	var l *models.League
	if args.Get(0) != nil {
		l = args.Get(0).(*models.League)
	}
	return l, args.Error(1)
}

func (m *LeagueRepository) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.League, error) {
	args := m.Called(ctx, exec)

	var r []*models.League
	if args.Get(0) != nil {
		r = args.Get(0).([]*models.League)
	}
	return r, args.Error(1)
}

type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) EnsureUser(ctx context.Context, exec repositories.SQLExecutor, username string) (int, error) {
	args := m.Called(ctx, exec, username)
	return args.Int(0), args.Error(1)
}

func (m *TeamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	args := m.Called(ctx, exec, team)
	return args.Error(0)
}

func (m *TeamRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	args := m.Called(ctx, exec, id)

	var t *models.Team
	if args.Get(0) != nil {
		t = args.Get(0).(*models.Team)
	}
	return t, args.Error(1)
}

func (m *TeamRepository) ListByLeague(ctx context.Context, exec repositories.SQLExecutor, leagueID int) ([]models.Team, error) {
	args := m.Called(ctx, exec, leagueID)

	var r []models.Team
	if args.Get(0) != nil {
		r = args.Get(0).([]models.Team)
	}
	return r, args.Error(1)
}

type WeekRepository struct {
	mock.Mock
}

func (m *WeekRepository) Create(ctx context.Context, exec repositories.SQLExecutor, week *models.LeagueWeek) error {
	args := m.Called(ctx, exec, week)
	return args.Error(0)
}

func (m *WeekRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.LeagueWeek, error) {
	args := m.Called(ctx, exec, id)

	var w *models.LeagueWeek
	if args.Get(0) != nil {
		w = args.Get(0).(*models.LeagueWeek)
	}
	return w, args.Error(1)
}

func (m *WeekRepository) ListByLeague(ctx context.Context, exec repositories.SQLExecutor, leagueID int) ([]models.LeagueWeek, error) {
	args := m.Called(ctx, exec, leagueID)

	var r []models.LeagueWeek
	if args.Get(0) != nil {
		r = args.Get(0).([]models.LeagueWeek)
	}
	return r, args.Error(1)
}

func (m *WeekRepository) ListIDsByStatus(ctx context.Context, exec repositories.SQLExecutor, status models.WeekStatus) ([]int, error) {
	args := m.Called(ctx, exec, status)

	var r []int
	if args.Get(0) != nil {
		r = args.Get(0).([]int)
	}
	return r, args.Error(1)
}

func (m *WeekRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, from, to models.WeekStatus, at time.Time) error {
	args := m.Called(ctx, exec, id, from, to, at)
	return args.Error(0)
}

func (m *WeekRepository) DeleteInSetup(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	args := m.Called(ctx, exec, id)
	return args.Error(0)
}

type MatchupRepository struct {
	mock.Mock
}

func (m *MatchupRepository) CreateWeekMatchups(ctx context.Context, exec repositories.SQLExecutor, matchups []*models.WeekMatchup) error {
	args := m.Called(ctx, exec, matchups)
	return args.Error(0)
}

func (m *MatchupRepository) CreatePlayerMatchups(ctx context.Context, exec repositories.SQLExecutor, matchups []*models.PlayerMatchupInfo) error {
	args := m.Called(ctx, exec, matchups)
	return args.Error(0)
}

func (m *MatchupRepository) ListByWeekIDs(ctx context.Context, exec repositories.SQLExecutor, weekIDs []int) (map[int][]models.WeekMatchup, error) {
	args := m.Called(ctx, exec, weekIDs)

	var r map[int][]models.WeekMatchup
	if args.Get(0) != nil {
		r = args.Get(0).(map[int][]models.WeekMatchup)
	}
	return r, args.Error(1)
}

func (m *MatchupRepository) GetPlayerMatchup(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.PlayerMatchupInfo, int, error) {
	args := m.Called(ctx, exec, id)

	var pm *models.PlayerMatchupInfo
	if args.Get(0) != nil {
		pm = args.Get(0).(*models.PlayerMatchupInfo)
	}
	return pm, args.Int(1), args.Error(2)
}

func (m *MatchupRepository) AddGame(ctx context.Context, exec repositories.SQLExecutor, game *models.MatchGameInfo) error {
	args := m.Called(ctx, exec, game)
	return args.Error(0)
}

func (m *MatchupRepository) AddStrike(ctx context.Context, exec repositories.SQLExecutor, strike *models.Strike) error {
	args := m.Called(ctx, exec, strike)
	return args.Error(0)
}

type SelectionRepository struct {
	mock.Mock
}

func (m *SelectionRepository) UpsertFeature(ctx context.Context, exec repositories.SQLExecutor, fd models.FeatureDesignation) error {
	args := m.Called(ctx, exec, fd)
	return args.Error(0)
}

func (m *SelectionRepository) ListFeatures(ctx context.Context, exec repositories.SQLExecutor, weekIDs []int) (map[int][]models.FeatureDesignation, error) {
	args := m.Called(ctx, exec, weekIDs)

	var r map[int][]models.FeatureDesignation
	if args.Get(0) != nil {
		r = args.Get(0).(map[int][]models.FeatureDesignation)
	}
	return r, args.Error(1)
}

func (m *SelectionRepository) UpsertDeckSelection(ctx context.Context, exec repositories.SQLExecutor, ds *models.DeckSelection) error {
	args := m.Called(ctx, exec, ds)
	return args.Error(0)
}

func (m *SelectionRepository) ListDeckSelections(ctx context.Context, exec repositories.SQLExecutor, weekIDs []int) (map[int][]models.DeckSelection, error) {
	args := m.Called(ctx, exec, weekIDs)

	var r map[int][]models.DeckSelection
	if args.Get(0) != nil {
		r = args.Get(0).(map[int][]models.DeckSelection)
	}
	return r, args.Error(1)
}

// Transactor runs fn immediately with a nil executor.
type Transactor struct {
	mock.Mock
}

func (m *Transactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}
