package models

import "time"

type TeamMember struct {
	UserID    int    `json:"user_id" db:"user_id"`
	Username  string `json:"username" db:"username"`
	IsCaptain bool   `json:"is_captain" db:"is_captain"`
}

type Team struct {
	ID        int       `json:"id" db:"id"`
	LeagueID  int       `json:"league_id" db:"league_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Members []TeamMember `json:"members" db:"-"`
}

// HasMember reports whether the user is on the team roster.
func (t Team) HasMember(userID int) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the team's member-id set. It decides which side of a
// matchup a player belongs to.
func (t Team) MemberIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(t.Members))
	for _, m := range t.Members {
		ids[m.UserID] = struct{}{}
	}
	return ids
}

// Captain returns the first member flagged as captain.
func (t Team) Captain() (TeamMember, bool) {
	for _, m := range t.Members {
		if m.IsCaptain {
			return m, true
		}
	}
	return TeamMember{}, false
}
