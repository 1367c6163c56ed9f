// Package pairing produces team and player matchups for a week. Generation
// strategy sits behind Pairer so a league can plug in its own.
package pairing

import (
	"context"
	"errors"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams to pair (min 2 required)")
	ErrTeamMismatch   = errors.New("teams do not match the week matchup")
)

type PairTeamsParams struct {
	Week  models.LeagueWeek
	Teams []models.Team
}

type PairPlayersParams struct {
	Week    models.LeagueWeek
	Matchup models.WeekMatchup
	Team1   models.Team
	Team2   models.Team
}

// Pairer returns unsaved matchups; ids are assigned on insert.
type Pairer interface {
	PairTeams(ctx context.Context, params PairTeamsParams) ([]models.WeekMatchup, error)

	PairPlayers(ctx context.Context, params PairPlayersParams) ([]models.PlayerMatchupInfo, error)

	GetName() string
}
