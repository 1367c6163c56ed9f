package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrLeagueNotFound        = errors.New("league not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrWeekNotFound          = errors.New("week not found")
	ErrPlayerMatchupNotFound = errors.New("player matchup not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrLeagueNameRequired = errors.New("league name is required")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrInvalidFormat      = errors.New("unknown format type")
	ErrInvalidBestOf      = errors.New("best_of_n must be an odd number of at least 1")
	ErrInvalidWeekNumber  = errors.New("week_number must be positive")
	ErrTeamNotInLeague    = errors.New("team does not belong to this league")
	ErrUserNotOnTeam      = errors.New("user is not a member of this team")
	ErrUserNotInLeague    = errors.New("user is not enrolled in this league")
	ErrTooManyDecks       = errors.New("too many decks for this format")
	ErrInvalidWinner      = errors.New("winner must be one of the matchup players")
	ErrInvalidGameNumber  = errors.New("game_number must be positive")
	ErrPlayerNotInMatchup = errors.New("player is not part of this matchup")
	ErrMatchupDecided     = errors.New("matchup is already decided")

	// Ошибки состояния недели
	ErrSelectionClosed  = errors.New("deck selection is closed for this week")
	ErrFeaturesClosed   = errors.New("feature designations are closed for this week")
	ErrReportingClosed  = errors.New("game reporting is closed for this week")
	ErrStrikesClosed    = errors.New("strikes are not open for this week")
	ErrWeekNotDeletable = errors.New("week can only be deleted during setup")

	// Ошибки конфликтов
	ErrLeagueNameConflict  = errors.New("league name is already in use")
	ErrTeamNameConflict    = errors.New("team name is already in use in this league")
	ErrPlayerAlreadyOnTeam = errors.New("player already belongs to a team in this league")
	ErrWeekNumberConflict  = errors.New("week number already exists in this league")
	ErrGameNumberConflict  = errors.New("game number already reported for this matchup")
	ErrWeekStatusConflict  = errors.New("week status changed concurrently, reload and retry")
)
