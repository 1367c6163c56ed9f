// Package lifecycle holds the week state machine. Each (status, format
// class) pair maps to one Phase variant that knows its legal actions and
// where they lead.
package lifecycle

import (
	"fmt"

	"github.com/Dosada05/team-league/models"
)

// Action is a named week transition trigger.
type Action string

const (
	ActionOpenSelection          Action = "open_selection"
	ActionGenerateTeamPairings   Action = "generate_team_pairings"
	ActionAdvanceToThief         Action = "advance_to_thief"
	ActionEndThief               Action = "end_thief"
	ActionGeneratePlayerMatchups Action = "generate_player_matchups"
	ActionPublish                Action = "publish"
	ActionCheckCompletion        Action = "check_completion"
)

var actions = []Action{
	ActionOpenSelection,
	ActionGenerateTeamPairings,
	ActionAdvanceToThief,
	ActionEndThief,
	ActionGeneratePlayerMatchups,
	ActionPublish,
	ActionCheckCompletion,
}

// ParseAction validates an action name coming from a caller.
func ParseAction(s string) (Action, error) {
	for _, a := range actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// step is an outgoing edge of a phase.
type step struct {
	action Action
	to     models.WeekStatus
}

// Phase is one node of the week state machine.
type Phase interface {
	Status() models.WeekStatus
	// Actions lists the legal outgoing actions in display order.
	Actions() []Action
	// CanDelete reports whether the week may still be deleted.
	CanDelete() bool
	steps() []step
}

func actionsOf(p Phase) []Action {
	st := p.steps()
	out := make([]Action, len(st))
	for i, s := range st {
		out[i] = s.action
	}
	return out
}

type basePhase struct{}

func (basePhase) CanDelete() bool { return false }

// Setup: nothing generated yet.
type SetupPhase struct {
	basePhase
	Thief bool
}

func (SetupPhase) Status() models.WeekStatus { return models.WeekStatusSetup }
func (p SetupPhase) Actions() []Action       { return actionsOf(p) }
func (SetupPhase) CanDelete() bool           { return true }
func (p SetupPhase) steps() []step {
	if p.Thief {
		return []step{{ActionOpenSelection, models.WeekStatusCuration}}
	}
	return []step{{ActionOpenSelection, models.WeekStatusDeckSelection}}
}

// CurationPhase is the thief format's pool curation before teams pair.
type CurationPhase struct{ basePhase }

func (CurationPhase) Status() models.WeekStatus { return models.WeekStatusCuration }
func (p CurationPhase) Actions() []Action       { return actionsOf(p) }
func (CurationPhase) steps() []step {
	return []step{{ActionGenerateTeamPairings, models.WeekStatusTeamPaired}}
}

// DeckSelectionPhase collects deck registrations. For the thief format it
// is the re-opened selection after the steal and leads straight to pairing.
type DeckSelectionPhase struct {
	basePhase
	AfterSteal bool
}

func (DeckSelectionPhase) Status() models.WeekStatus { return models.WeekStatusDeckSelection }
func (p DeckSelectionPhase) Actions() []Action       { return actionsOf(p) }
func (p DeckSelectionPhase) steps() []step {
	if p.AfterSteal {
		return []step{{ActionGeneratePlayerMatchups, models.WeekStatusPairing}}
	}
	return []step{{ActionGenerateTeamPairings, models.WeekStatusTeamPaired}}
}

type TeamPairedPhase struct {
	basePhase
	Thief bool
}

func (TeamPairedPhase) Status() models.WeekStatus { return models.WeekStatusTeamPaired }
func (p TeamPairedPhase) Actions() []Action       { return actionsOf(p) }
func (p TeamPairedPhase) steps() []step {
	if p.Thief {
		return []step{{ActionAdvanceToThief, models.WeekStatusThief}}
	}
	return []step{{ActionGeneratePlayerMatchups, models.WeekStatusPairing}}
}

// ThiefPhase is the steal sub-phase.
type ThiefPhase struct{ basePhase }

func (ThiefPhase) Status() models.WeekStatus { return models.WeekStatusThief }
func (p ThiefPhase) Actions() []Action       { return actionsOf(p) }
func (ThiefPhase) steps() []step {
	return []step{{ActionEndThief, models.WeekStatusDeckSelection}}
}

type PairingPhase struct{ basePhase }

func (PairingPhase) Status() models.WeekStatus { return models.WeekStatusPairing }
func (p PairingPhase) Actions() []Action       { return actionsOf(p) }
func (PairingPhase) steps() []step {
	return []step{{ActionPublish, models.WeekStatusPublished}}
}

type PublishedPhase struct{ basePhase }

func (PublishedPhase) Status() models.WeekStatus { return models.WeekStatusPublished }
func (p PublishedPhase) Actions() []Action       { return actionsOf(p) }
func (PublishedPhase) steps() []step {
	return []step{{ActionCheckCompletion, models.WeekStatusCompleted}}
}

// CompletedPhase accepts check_completion as a no-op.
type CompletedPhase struct{ basePhase }

func (CompletedPhase) Status() models.WeekStatus { return models.WeekStatusCompleted }
func (p CompletedPhase) Actions() []Action       { return actionsOf(p) }
func (CompletedPhase) steps() []step {
	return []step{{ActionCheckCompletion, models.WeekStatusCompleted}}
}

// PhaseOf resolves the phase variant for a week's status and format.
func PhaseOf(status models.WeekStatus, format models.FormatType) (Phase, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrUnknownPhase, format)
	}
	thief := format.HasThiefPhases()

	switch status {
	case models.WeekStatusSetup:
		return SetupPhase{Thief: thief}, nil
	case models.WeekStatusCuration:
		if thief {
			return CurationPhase{}, nil
		}
	case models.WeekStatusDeckSelection:
		return DeckSelectionPhase{AfterSteal: thief}, nil
	case models.WeekStatusTeamPaired:
		return TeamPairedPhase{Thief: thief}, nil
	case models.WeekStatusThief:
		if thief {
			return ThiefPhase{}, nil
		}
	case models.WeekStatusPairing:
		return PairingPhase{}, nil
	case models.WeekStatusPublished:
		return PublishedPhase{}, nil
	case models.WeekStatusCompleted:
		return CompletedPhase{}, nil
	}
	return nil, fmt.Errorf("%w: %s in format %s", ErrUnknownPhase, status, format)
}

// LegalActions is the action list the week currently offers. An
// unreachable status offers nothing.
func LegalActions(week models.LeagueWeek) []Action {
	p, err := PhaseOf(week.Status, week.FormatType)
	if err != nil {
		return []Action{}
	}
	return p.Actions()
}

// CanDelete reports whether the week may still be deleted.
func CanDelete(week models.LeagueWeek) bool {
	p, err := PhaseOf(week.Status, week.FormatType)
	return err == nil && p.CanDelete()
}
