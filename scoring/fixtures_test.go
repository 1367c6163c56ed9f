package scoring

import "github.com/Dosada05/team-league/models"

// Team 1 fields players 11-13, team 2 fields 21-23.
func testTeams() []models.Team {
	return []models.Team{
		{ID: 1, Name: "Red", Members: []models.TeamMember{{UserID: 11, IsCaptain: true}, {UserID: 12}, {UserID: 13}}},
		{ID: 2, Name: "Blue", Members: []models.TeamMember{{UserID: 21, IsCaptain: true}, {UserID: 22}, {UserID: 23}}},
	}
}

var nextID = 1000

func games(winners ...int) []models.MatchGameInfo {
	out := make([]models.MatchGameInfo, len(winners))
	for i, w := range winners {
		out[i] = models.MatchGameInfo{GameNumber: i + 1, WinnerID: w}
	}
	return out
}

func pm(p1, p2 int, feature bool, winners ...int) models.PlayerMatchupInfo {
	nextID++
	return models.PlayerMatchupInfo{
		ID:        nextID,
		Player1ID: p1,
		Player2ID: p2,
		IsFeature: feature,
		Games:     games(winners...),
	}
}

func week(number int, status models.WeekStatus, pms ...models.PlayerMatchupInfo) models.LeagueWeek {
	return models.LeagueWeek{
		ID:         number,
		WeekNumber: number,
		FormatType: models.FormatArchonStandard,
		BestOfN:    3,
		Status:     status,
		Matchups: []models.WeekMatchup{
			{ID: number * 10, WeekID: number, Team1ID: 1, Team2ID: 2, PlayerMatchups: pms},
		},
	}
}

func league() models.League {
	return models.League{ID: 1, TeamSize: 3, NumTeams: 2, WeekBonusPoints: models.DefaultWeekBonusPoints}
}

func rowFor(t []models.TeamStanding, teamID int) models.TeamStanding {
	for _, r := range t {
		if r.TeamID == teamID {
			return r
		}
	}
	return models.TeamStanding{}
}
