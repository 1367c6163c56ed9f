package scoring

import "fmt"

// AnomalyKind names a class of malformed result data.
type AnomalyKind string

const (
	AnomalyInvalidWinner       AnomalyKind = "invalid_winner"
	AnomalyDuplicateGame       AnomalyKind = "duplicate_game"
	AnomalyOverlappingTeams    AnomalyKind = "overlapping_teams"
	AnomalyUnknownTeam         AnomalyKind = "unknown_team"
	AnomalyDuplicateTeamInWeek AnomalyKind = "duplicate_team_in_week"
	AnomalyWinnerNotOnTeam     AnomalyKind = "winner_not_on_team"
	AnomalyMultipleFeatures    AnomalyKind = "multiple_features"
	AnomalyInvalidBestOf       AnomalyKind = "invalid_best_of"
)

// Anomaly is a record that was excluded from scoring. Zero ids mean the
// field does not apply to the anomaly kind.
type Anomaly struct {
	Kind            AnomalyKind `json:"kind"`
	WeekNumber      int         `json:"week_number,omitempty"`
	WeekMatchupID   int         `json:"week_matchup_id,omitempty"`
	PlayerMatchupID int         `json:"player_matchup_id,omitempty"`
	GameNumber      int         `json:"game_number,omitempty"`
	TeamID          int         `json:"team_id,omitempty"`
	Detail          string      `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s (week %d, matchup %d, player matchup %d): %s",
		a.Kind, a.WeekNumber, a.WeekMatchupID, a.PlayerMatchupID, a.Detail)
}
