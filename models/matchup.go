package models

import "time"

// WeekMatchup is one team-vs-team pairing inside a week.
type WeekMatchup struct {
	ID      int `json:"id" db:"id"`
	WeekID  int `json:"week_id" db:"week_id"`
	Team1ID int `json:"team1_id" db:"team1_id"`
	Team2ID int `json:"team2_id" db:"team2_id"`

	PlayerMatchups []PlayerMatchupInfo `json:"player_matchups" db:"-"`
}

type PlayerMatchupInfo struct {
	ID            int  `json:"id" db:"id"`
	WeekMatchupID int  `json:"week_matchup_id" db:"week_matchup_id"`
	Player1ID     int  `json:"player1_id" db:"player1_id"`
	Player2ID     int  `json:"player2_id" db:"player2_id"`
	IsFeature     bool `json:"is_feature" db:"is_feature"`

	Games   []MatchGameInfo `json:"games" db:"-"`
	Strikes []Strike        `json:"strikes,omitempty" db:"-"`
}

// Involves reports whether the player sits on either side of the matchup.
func (pm PlayerMatchupInfo) Involves(playerID int) bool {
	return pm.Player1ID == playerID || pm.Player2ID == playerID
}

// Opponent returns the other side of the matchup for playerID.
func (pm PlayerMatchupInfo) Opponent(playerID int) (int, bool) {
	switch playerID {
	case pm.Player1ID:
		return pm.Player2ID, true
	case pm.Player2ID:
		return pm.Player1ID, true
	}
	return 0, false
}

type MatchGameInfo struct {
	ID              int       `json:"id" db:"id"`
	PlayerMatchupID int       `json:"player_matchup_id" db:"player_matchup_id"`
	GameNumber      int       `json:"game_number" db:"game_number"`
	WinnerID        int       `json:"winner_id" db:"winner_id"`
	Player1Keys     int       `json:"player1_keys" db:"player1_keys"`
	Player2Keys     int       `json:"player2_keys" db:"player2_keys"`
	WentToTime      bool      `json:"went_to_time" db:"went_to_time"`
	LoserConceded   bool      `json:"loser_conceded" db:"loser_conceded"`
	ReportedAt      time.Time `json:"reported_at" db:"reported_at"`
}

// Strike is a format-specific deck ban. Scoring ignores strikes.
type Strike struct {
	ID              int       `json:"id" db:"id"`
	PlayerMatchupID int       `json:"player_matchup_id" db:"player_matchup_id"`
	StrikerID       int       `json:"striker_id" db:"striker_id"`
	DeckID          string    `json:"deck_id" db:"deck_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
