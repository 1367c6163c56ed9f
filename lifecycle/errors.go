package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrInvalidTransition = errors.New("action is not legal in the current phase")
	ErrPrecondition      = errors.New("action preconditions are not met")
	ErrUnknownAction     = errors.New("unknown week action")
	ErrUnknownPhase      = errors.New("status is not reachable for the week format")
)

// TransitionError rejects an action that the week's phase does not offer.
type TransitionError struct {
	Status models.WeekStatus
	Format models.FormatType
	Action Action
	Legal  []Action
}

func (e *TransitionError) Error() string {
	legal := make([]string, len(e.Legal))
	for i, a := range e.Legal {
		legal[i] = string(a)
	}
	return fmt.Sprintf("%s: %q from %s (%s); legal: [%s]",
		ErrInvalidTransition, e.Action, e.Status, e.Format, strings.Join(legal, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PreconditionError rejects a legal action whose inputs are incomplete. When
// Overridable is set the caller may retry with force.
type PreconditionError struct {
	Action         Action
	Reason         string
	MissingPlayers []string
	MissingTeams   []int
	Overridable    bool
}

func (e *PreconditionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", ErrPrecondition, e.Action, e.Reason)
	if len(e.MissingPlayers) > 0 {
		fmt.Fprintf(&b, "; players without decks: %s", strings.Join(e.MissingPlayers, ", "))
	}
	if len(e.MissingTeams) > 0 {
		fmt.Fprintf(&b, "; teams without feature: %v", e.MissingTeams)
	}
	return b.String()
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }
