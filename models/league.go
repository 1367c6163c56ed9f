package models

import "time"

// DefaultWeekBonusPoints is awarded to a week's winning team when the league
// does not configure its own value.
const DefaultWeekBonusPoints = 2

// League представляет командную лигу.
type League struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	TeamSize        int       `json:"team_size" db:"team_size"`
	NumTeams        int       `json:"num_teams" db:"num_teams"`
	WeekBonusPoints int       `json:"week_bonus_points" db:"week_bonus_points"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Teams []Team       `json:"teams,omitempty" db:"-"`
	Weeks []LeagueWeek `json:"weeks,omitempty" db:"-"`
}
