package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"github.com/Dosada05/team-league/models"
)

// PlayerFact is an enrolled player's deck-selection progress.
type PlayerFact struct {
	UserID        int
	Username      string
	DecksSelected int
}

// TeamFact is a team's feature designation for the week. FeatureUserID is
// zero when the team has not designated anyone.
type TeamFact struct {
	TeamID        int
	FeatureUserID int
}

// Facts is the snapshot a caller gathers before asking for a decision.
type Facts struct {
	HasMatchups       bool
	TeamCount         int
	Players           []PlayerFact
	Teams             []TeamFact
	UndecidedMatchups int
	Force             bool
}

// Decision is an accepted transition. When Changed is false the week keeps
// its status and nothing needs to be written.
type Decision struct {
	Action  Action
	From    models.WeekStatus
	To      models.WeekStatus
	Changed bool
	At      time.Time

	NeedsTeamPairings   bool
	NeedsPlayerMatchups bool
	Publishes           bool
	Completes           bool
}

// Decide validates action against the week's phase and the gathered facts.
// It performs no I/O; the caller applies the decision.
func Decide(week models.LeagueWeek, action Action, facts Facts, now func() time.Time) (Decision, error) {
	phase, err := PhaseOf(week.Status, week.FormatType)
	if err != nil {
		return Decision{}, err
	}

	var target models.WeekStatus
	found := false
	for _, s := range phase.steps() {
		if s.action == action {
			target, found = s.to, true
			break
		}
	}
	if !found {
		return Decision{}, &TransitionError{
			Status: week.Status,
			Format: week.FormatType,
			Action: action,
			Legal:  phase.Actions(),
		}
	}

	d := Decision{Action: action, From: week.Status, To: target, At: now()}

	switch action {
	case ActionOpenSelection:
		if facts.HasMatchups {
			return Decision{}, &PreconditionError{
				Action: action,
				Reason: "week already has matchups",
			}
		}
	case ActionGenerateTeamPairings:
		if facts.TeamCount < 2 {
			return Decision{}, &PreconditionError{
				Action: action,
				Reason: fmt.Sprintf("league has %d teams, at least 2 required", facts.TeamCount),
			}
		}
		d.NeedsTeamPairings = true
	case ActionGeneratePlayerMatchups:
		if err := checkMatchupReadiness(week.FormatType, facts); err != nil {
			return Decision{}, err
		}
		d.NeedsPlayerMatchups = true
	case ActionPublish:
		d.Publishes = true
	case ActionCheckCompletion:
		if week.Status == models.WeekStatusCompleted || facts.UndecidedMatchups > 0 {
			d.To = week.Status
			return d, nil
		}
		d.Completes = true
	}

	d.Changed = d.To != d.From
	return d, nil
}

// checkMatchupReadiness requires deck selections from every enrolled player
// unless forced, and a feature from every team when the format breaks ties
// with one. Missing features cannot be forced.
func checkMatchupReadiness(format models.FormatType, facts Facts) error {
	var missingTeams []int
	if format.UsesFeatureTiebreak() {
		for _, t := range facts.Teams {
			if t.FeatureUserID == 0 {
				missingTeams = append(missingTeams, t.TeamID)
			}
		}
		slices.Sort(missingTeams)
	}

	var missingPlayers []string
	if !facts.Force {
		need := format.RequiredDecks()
		for _, p := range facts.Players {
			if p.DecksSelected < need {
				name := p.Username
				if name == "" {
					name = fmt.Sprintf("user %d", p.UserID)
				}
				missingPlayers = append(missingPlayers, name)
			}
		}
	}

	if len(missingTeams) == 0 && len(missingPlayers) == 0 {
		return nil
	}

	reason := "deck selections are incomplete"
	if len(missingTeams) > 0 {
		reason = "feature designations are missing"
	}
	return &PreconditionError{
		Action:         ActionGeneratePlayerMatchups,
		Reason:         reason,
		MissingPlayers: missingPlayers,
		MissingTeams:   missingTeams,
		Overridable:    len(missingTeams) == 0,
	}
}
