package models

// TeamStanding is one row of the league table. WeekPoints is keyed by week
// number and only holds qualifying weeks the team played in.
type TeamStanding struct {
	TeamID     int         `json:"team_id"`
	TeamName   string      `json:"team_name"`
	WeekPoints map[int]int `json:"week_points"`
	Total      int         `json:"total"`
}

// PlayerSeed is a player's power score ahead of a given week.
type PlayerSeed struct {
	PlayerID   int     `json:"player_id"`
	Username   string  `json:"username"`
	TeamID     int     `json:"team_id"`
	WeekNumber int     `json:"week_number"`
	PowerScore float64 `json:"power_score"`
}
