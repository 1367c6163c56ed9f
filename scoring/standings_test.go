package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/team-league/models"
)

func TestStandingsMajorityIgnoresFeature(t *testing.T) {
	// Team 1 wins A 2-0 and B 2-1, loses the feature matchup C 1-2.
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, false, 11, 11),
		pm(12, 22, false, 12, 22, 12),
		pm(13, 23, true, 23, 13, 23),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	require.Len(t, res.Rows, 2)
	assert.Empty(t, res.Anomalies)

	assert.Equal(t, 1, res.Rows[0].TeamID)
	assert.Equal(t, map[int]int{1: 4}, res.Rows[0].WeekPoints)
	assert.Equal(t, 4, res.Rows[0].Total)
	assert.Equal(t, map[int]int{1: 1}, res.Rows[1].WeekPoints)
	assert.Equal(t, 1, res.Rows[1].Total)
}

func TestStandingsFeatureBreaksTie(t *testing.T) {
	// One matchup each, the third undecided; team 1 won the feature.
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, true, 11, 11),
		pm(12, 22, false, 22, 22),
		pm(13, 23, false, 13),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 3, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 1, rowFor(res.Rows, 2).Total)
}

func TestStandingsTieBreakGoesToFeatureSide(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, false, 11, 11),
		pm(12, 22, true, 22, 22),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 1, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 3, rowFor(res.Rows, 2).Total)
	assert.Equal(t, 2, res.Rows[0].TeamID)
}

func TestStandingsTieWithoutFeatureHasNoBonus(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, false, 11, 11),
		pm(12, 22, false, 22, 22),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 1, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 1, rowFor(res.Rows, 2).Total)
	assert.Equal(t, []int{1, 2}, []int{res.Rows[0].TeamID, res.Rows[1].TeamID})
}

func TestStandingsUndecidedFeatureHasNoBonus(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, false, 11, 11),
		pm(12, 22, false, 22, 22),
		pm(13, 23, true, 13),
		pm(13, 22, false),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 1, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 1, rowFor(res.Rows, 2).Total)
}

func TestStandingsOnlyQualifyingWeeksCount(t *testing.T) {
	var weeks []models.LeagueWeek
	statuses := []models.WeekStatus{
		models.WeekStatusSetup,
		models.WeekStatusDeckSelection,
		models.WeekStatusPairing,
		models.WeekStatusPublished,
		models.WeekStatusCompleted,
	}
	for i, s := range statuses {
		weeks = append(weeks, week(i+1, s, pm(11, 21, false, 11, 11)))
	}

	res := Standings(league(), testTeams(), weeks)
	red := rowFor(res.Rows, 1)
	assert.Equal(t, map[int]int{4: 3, 5: 3}, red.WeekPoints)

	sum := 0
	for _, p := range red.WeekPoints {
		sum += p
	}
	assert.Equal(t, sum, red.Total)
	assert.Equal(t, map[int]int{4: 0, 5: 0}, rowFor(res.Rows, 2).WeekPoints)
}

func TestStandingsCustomBonus(t *testing.T) {
	l := league()
	l.WeekBonusPoints = 5
	w := week(1, models.WeekStatusCompleted, pm(11, 21, false, 11))
	w.BestOfN = 1

	res := Standings(l, testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 6, rowFor(res.Rows, 1).Total)
}

func TestStandingsZeroMatchupsAwardsNothing(t *testing.T) {
	w := week(1, models.WeekStatusPublished)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	assert.Equal(t, 0, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 0, rowFor(res.Rows, 2).Total)
}

func TestStandingsExcludesMalformedRecords(t *testing.T) {
	bad := pm(11, 21, false)
	bad.Games = []models.MatchGameInfo{
		{GameNumber: 1, WinnerID: 99},
		{GameNumber: 2, WinnerID: 11},
		{GameNumber: 2, WinnerID: 11},
	}
	w := week(1, models.WeekStatusPublished, bad, pm(12, 22, false, 12, 12))
	w.Matchups = append(w.Matchups,
		models.WeekMatchup{ID: 11, Team1ID: 1, Team2ID: 7},
		models.WeekMatchup{ID: 12, Team1ID: 2, Team2ID: 1},
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})

	kinds := map[AnomalyKind]int{}
	for _, a := range res.Anomalies {
		kinds[a.Kind]++
		assert.Equal(t, 1, a.WeekNumber)
	}
	assert.Equal(t, map[AnomalyKind]int{
		AnomalyInvalidWinner:       1,
		AnomalyDuplicateGame:       1,
		AnomalyUnknownTeam:         1,
		AnomalyDuplicateTeamInWeek: 1,
	}, kinds)

	// The first matchup is undecided (1-0), so team 1 holds 1 of 2 without
	// a feature win.
	assert.Equal(t, 1, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 0, rowFor(res.Rows, 2).Total)
}

func TestStandingsOverlappingTeams(t *testing.T) {
	teams := testTeams()
	teams[1].Members = append(teams[1].Members, models.TeamMember{UserID: 11})
	w := week(1, models.WeekStatusPublished, pm(11, 21, false, 11, 11))

	res := Standings(league(), teams, []models.LeagueWeek{w})
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyOverlappingTeams, res.Anomalies[0].Kind)
	assert.Equal(t, 0, rowFor(res.Rows, 1).Total)
}

func TestStandingsWinnerNotOnTeam(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, false, 11, 11),
		pm(12, 99, false, 99, 99),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyWinnerNotOnTeam, res.Anomalies[0].Kind)
	// The stray matchup still counts: 1 of 2 is no majority.
	assert.Equal(t, 1, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 0, rowFor(res.Rows, 2).Total)
}

func TestStandingsWinnerNotOnTeamFeatureBreaksTie(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, true, 11, 11),
		pm(12, 99, false, 99, 99),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, 3, rowFor(res.Rows, 1).Total)
}

func TestStandingsMultipleFeaturesUsesFirst(t *testing.T) {
	w := week(1, models.WeekStatusPublished,
		pm(11, 21, true, 11, 11),
		pm(12, 22, true, 22, 22),
	)

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyMultipleFeatures, res.Anomalies[0].Kind)
	assert.Equal(t, 3, rowFor(res.Rows, 1).Total)
	assert.Equal(t, 1, rowFor(res.Rows, 2).Total)
}

func TestStandingsInvalidBestOfFlagged(t *testing.T) {
	w := week(1, models.WeekStatusPublished, pm(11, 21, false, 11, 11))
	w.BestOfN = 0

	res := Standings(league(), testTeams(), []models.LeagueWeek{w})
	require.NotEmpty(t, res.Anomalies)
	assert.Equal(t, AnomalyInvalidBestOf, res.Anomalies[0].Kind)
	assert.Equal(t, 0, rowFor(res.Rows, 1).Total)
}

func TestStandingsOrdersByTotalThenTeamID(t *testing.T) {
	teams := append(testTeams(), models.Team{ID: 3, Name: "Green", Members: []models.TeamMember{{UserID: 31}}})
	w := week(1, models.WeekStatusPublished, pm(11, 21, false, 21, 21))

	res := Standings(league(), []models.Team{teams[2], teams[0], teams[1]}, []models.LeagueWeek{w})
	ids := make([]int, len(res.Rows))
	for i, r := range res.Rows {
		ids[i] = r.TeamID
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
}
