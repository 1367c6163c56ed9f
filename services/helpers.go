package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/repositories"
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	mapped := err
	switch {
	case errors.Is(err, repositories.ErrLeagueNotFound):
		mapped = ErrLeagueNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		mapped = ErrTeamNotFound
	case errors.Is(err, repositories.ErrWeekNotFound):
		mapped = ErrWeekNotFound
	case errors.Is(err, repositories.ErrPlayerMatchupNotFound):
		mapped = ErrPlayerMatchupNotFound
	case errors.Is(err, repositories.ErrLeagueNameConflict):
		mapped = ErrLeagueNameConflict
	case errors.Is(err, repositories.ErrTeamNameConflict):
		mapped = ErrTeamNameConflict
	case errors.Is(err, repositories.ErrPlayerAlreadyOnTeam):
		mapped = ErrPlayerAlreadyOnTeam
	case errors.Is(err, repositories.ErrWeekNumberConflict):
		mapped = ErrWeekNumberConflict
	case errors.Is(err, repositories.ErrGameNumberConflict):
		mapped = ErrGameNumberConflict
	case errors.Is(err, repositories.ErrWeekStatusConflict):
		mapped = ErrWeekStatusConflict
	case errors.Is(err, repositories.ErrWeekNotInSetup):
		mapped = ErrWeekNotDeletable
	case errors.Is(err, repositories.ErrLeagueInvalid),
		errors.Is(err, repositories.ErrWeekInvalid),
		errors.Is(err, repositories.ErrMatchupInvalid),
		errors.Is(err, repositories.ErrSelectionInvalid),
		errors.Is(err, repositories.ErrTeamLeagueInvalid),
		errors.Is(err, repositories.ErrWeekLeagueInvalid):
		return fmt.Errorf("%w: %s: %v", ErrValidationFailed, fmt.Sprintf(format, args...), err)
	default:
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return mapped
}

// leagueMembers returns every rostered player keyed by user id.
func leagueMembers(teams []models.Team) map[int]models.TeamMember {
	out := make(map[int]models.TeamMember)
	for _, t := range teams {
		for _, m := range t.Members {
			out[m.UserID] = m
		}
	}
	return out
}

func teamByID(teams []models.Team, id int) (models.Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

// normalizeDeckIDs trims ids and rejects blanks and repeats.
func normalizeDeckIDs(deckIDs []string) ([]string, error) {
	out := make([]string, 0, len(deckIDs))
	for _, id := range deckIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: deck id must not be empty", ErrValidationFailed)
		}
		if slices.Contains(out, id) {
			return nil, fmt.Errorf("%w: deck %q listed twice", ErrValidationFailed, id)
		}
		out = append(out, id)
	}
	return out, nil
}
