package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/repositories"
)

func intPtr(v int) *int { return &v }

func TestCreateLeague(t *testing.T) {
	env := newTestEnv(t)
	env.leagues.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(l *models.League) bool {
		return l.Name == "Spring Cup" && l.WeekBonusPoints == models.DefaultWeekBonusPoints
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.League).ID = 3
	}).Return(nil).Once()
	env.leagues.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(l *models.League) bool {
		return l.Name == "No Bonus" && l.WeekBonusPoints == 0
	})).Return(nil).Once()

	league, err := env.leagueSvc.CreateLeague(context.Background(), CreateLeagueInput{Name: "  Spring Cup ", TeamSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, league.ID)
	assert.Equal(t, "Spring Cup", league.Name)

	league, err = env.leagueSvc.CreateLeague(context.Background(), CreateLeagueInput{Name: "No Bonus", TeamSize: 3, WeekBonusPoints: intPtr(0)})
	require.NoError(t, err)
	assert.Zero(t, league.WeekBonusPoints)
}

func TestCreateLeagueValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.leagueSvc.CreateLeague(ctx, CreateLeagueInput{Name: " ", TeamSize: 3})
	assert.ErrorIs(t, err, ErrLeagueNameRequired)

	_, err = env.leagueSvc.CreateLeague(ctx, CreateLeagueInput{Name: "A", TeamSize: 0})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.leagueSvc.CreateLeague(ctx, CreateLeagueInput{Name: "A", TeamSize: 3, NumTeams: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.leagueSvc.CreateLeague(ctx, CreateLeagueInput{Name: "A", TeamSize: 3, WeekBonusPoints: intPtr(-2)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateLeagueNameTaken(t *testing.T) {
	env := newTestEnv(t)
	env.leagues.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repositories.ErrLeagueNameConflict)

	_, err := env.leagueSvc.CreateLeague(context.Background(), CreateLeagueInput{Name: "Winter League", TeamSize: 3})
	assert.ErrorIs(t, err, ErrLeagueNameConflict)
}

func TestGetLeagueIncludesTeamsAndWeeks(t *testing.T) {
	env := newTestEnv(t)
	week := testWeek(models.WeekStatusSetup)
	env.expectLeagueSnapshot([]models.LeagueWeek{week})
	env.expectPopulate(week.ID, nil, nil, nil)

	league, err := env.leagueSvc.GetLeague(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Winter League", league.Name)
	assert.Len(t, league.Teams, 2)
	require.Len(t, league.Weeks, 1)
	assert.NotNil(t, league.Weeks[0].Matchups)
}

func TestCreateTeam(t *testing.T) {
	env := newTestEnv(t)
	league := testLeague()
	env.leagues.On("GetByID", mock.Anything, mock.Anything, 1).Return(league, nil)
	env.teams.On("ListByLeague", mock.Anything, mock.Anything, 1).Return(testTeams(), nil)
	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.teams.On("EnsureUser", mock.Anything, mock.Anything, "gus").Return(31, nil)
	env.teams.On("EnsureUser", mock.Anything, mock.Anything, "hal").Return(32, nil)
	env.teams.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Team")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.Team).ID = 3
		}).Return(nil)

	team, err := env.leagueSvc.CreateTeam(context.Background(), 1, CreateTeamInput{
		Name:    "Green",
		Members: []TeamMemberInput{{Username: " gus "}, {Username: "hal"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, team.ID)
	require.Len(t, team.Members, 2)
	assert.Equal(t, models.TeamMember{UserID: 31, Username: "gus", IsCaptain: true}, team.Members[0])
	assert.False(t, team.Members[1].IsCaptain)
}

func TestCreateTeamLeagueFull(t *testing.T) {
	env := newTestEnv(t)
	league := testLeague()
	league.NumTeams = 2
	env.leagues.On("GetByID", mock.Anything, mock.Anything, 1).Return(league, nil)
	env.teams.On("ListByLeague", mock.Anything, mock.Anything, 1).Return(testTeams(), nil)

	_, err := env.leagueSvc.CreateTeam(context.Background(), 1, CreateTeamInput{
		Name:    "Green",
		Members: []TeamMemberInput{{Username: "gus"}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateTeamPlayerTaken(t *testing.T) {
	env := newTestEnv(t)
	env.leagues.On("GetByID", mock.Anything, mock.Anything, 1).Return(testLeague(), nil)
	env.teams.On("ListByLeague", mock.Anything, mock.Anything, 1).Return(testTeams(), nil)
	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.teams.On("EnsureUser", mock.Anything, mock.Anything, "ann").Return(11, nil)
	env.teams.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repositories.ErrPlayerAlreadyOnTeam)

	_, err := env.leagueSvc.CreateTeam(context.Background(), 1, CreateTeamInput{
		Name:    "Green",
		Members: []TeamMemberInput{{Username: "ann"}},
	})
	assert.ErrorIs(t, err, ErrPlayerAlreadyOnTeam)
}

func TestNormalizeMembers(t *testing.T) {
	cases := []struct {
		name    string
		in      []TeamMemberInput
		size    int
		wantErr bool
		captain int
	}{
		{"empty", nil, 3, true, -1},
		{"too many", []TeamMemberInput{{Username: "a"}, {Username: "b"}}, 1, true, -1},
		{"blank name", []TeamMemberInput{{Username: "a"}, {Username: " "}}, 3, true, -1},
		{"duplicate ignoring case", []TeamMemberInput{{Username: "Ann"}, {Username: "ann"}}, 3, true, -1},
		{"two captains", []TeamMemberInput{{Username: "a", IsCaptain: true}, {Username: "b", IsCaptain: true}}, 3, true, -1},
		{"first becomes captain", []TeamMemberInput{{Username: "a"}, {Username: "b"}}, 3, false, 0},
		{"explicit captain kept", []TeamMemberInput{{Username: "a"}, {Username: "b", IsCaptain: true}}, 3, false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := normalizeMembers(tc.in, tc.size)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			for i, m := range out {
				assert.Equal(t, i == tc.captain, m.IsCaptain, m.Username)
			}
		})
	}
}
