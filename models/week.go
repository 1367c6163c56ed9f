package models

import "time"

// FormatType is the match format a week is played under.
type FormatType string

const (
	FormatArchonStandard FormatType = "archon_standard"
	FormatTriad          FormatType = "triad"
	FormatSealedArchon   FormatType = "sealed_archon"
	FormatSealedAlliance FormatType = "sealed_alliance"
	FormatThief          FormatType = "thief"
	FormatSASLadder      FormatType = "sas_ladder"
	FormatAdaptive       FormatType = "adaptive"
	FormatAlliance       FormatType = "alliance"
)

var formatTypes = []FormatType{
	FormatArchonStandard,
	FormatTriad,
	FormatSealedArchon,
	FormatSealedAlliance,
	FormatThief,
	FormatSASLadder,
	FormatAdaptive,
	FormatAlliance,
}

// FormatTypes lists every supported format in declaration order.
func FormatTypes() []FormatType {
	out := make([]FormatType, len(formatTypes))
	copy(out, formatTypes)
	return out
}

func (f FormatType) Valid() bool {
	for _, ft := range formatTypes {
		if ft == f {
			return true
		}
	}
	return false
}

// HasThiefPhases reports whether the week passes through curation and the
// steal sub-phase.
func (f FormatType) HasThiefPhases() bool {
	return f == FormatThief
}

// UsesFeatureTiebreak reports whether every team must designate a feature
// player before player matchups are generated.
func (f FormatType) UsesFeatureTiebreak() bool {
	return f != FormatSASLadder
}

// RequiredDecks is the number of decks each player registers for the week.
func (f FormatType) RequiredDecks() int {
	if f == FormatTriad {
		return 3
	}
	return 1
}

// WeekStatus соответствует ENUM week_status в БД.
type WeekStatus string

const (
	WeekStatusSetup         WeekStatus = "setup"
	WeekStatusCuration      WeekStatus = "curation"
	WeekStatusDeckSelection WeekStatus = "deck_selection"
	WeekStatusTeamPaired    WeekStatus = "team_paired"
	WeekStatusThief         WeekStatus = "thief"
	WeekStatusPairing       WeekStatus = "pairing"
	WeekStatusPublished     WeekStatus = "published"
	WeekStatusCompleted     WeekStatus = "completed"
)

// Qualifies reports whether a week in this status counts toward standings.
func (s WeekStatus) Qualifies() bool {
	return s == WeekStatusPublished || s == WeekStatusCompleted
}

type FeatureDesignation struct {
	WeekID int `json:"week_id" db:"week_id"`
	TeamID int `json:"team_id" db:"team_id"`
	UserID int `json:"user_id" db:"user_id"`
}

type DeckSelection struct {
	WeekID    int       `json:"week_id" db:"week_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	DeckIDs   []string  `json:"deck_ids" db:"deck_ids"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type LeagueWeek struct {
	ID          int        `json:"id" db:"id"`
	LeagueID    int        `json:"league_id" db:"league_id"`
	WeekNumber  int        `json:"week_number" db:"week_number"`
	FormatType  FormatType `json:"format_type" db:"format_type"`
	BestOfN     int        `json:"best_of_n" db:"best_of_n"`
	Status      WeekStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	Matchups            []WeekMatchup        `json:"matchups" db:"-"`
	FeatureDesignations []FeatureDesignation `json:"feature_designations" db:"-"`
	DeckSelections      []DeckSelection      `json:"deck_selections,omitempty" db:"-"`
}

// FeatureFor returns the user a team designated as its feature player.
func (w LeagueWeek) FeatureFor(teamID int) (int, bool) {
	for _, fd := range w.FeatureDesignations {
		if fd.TeamID == teamID {
			return fd.UserID, true
		}
	}
	return 0, false
}

// DeckSelectionFor returns the deck selection a user registered for the week.
func (w LeagueWeek) DeckSelectionFor(userID int) (DeckSelection, bool) {
	for _, ds := range w.DeckSelections {
		if ds.UserID == userID {
			return ds, true
		}
	}
	return DeckSelection{}, false
}

// MatchupForTeam returns the week matchup the team plays in.
func (w LeagueWeek) MatchupForTeam(teamID int) (*WeekMatchup, bool) {
	for i := range w.Matchups {
		if w.Matchups[i].Team1ID == teamID || w.Matchups[i].Team2ID == teamID {
			return &w.Matchups[i], true
		}
	}
	return nil, false
}
