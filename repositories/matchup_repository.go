package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrPlayerMatchupNotFound = errors.New("player matchup not found")
	ErrGameNumberConflict    = errors.New("game number already reported for this matchup")
	ErrMatchupInvalid        = errors.New("matchup violates constraints")
	ErrMatchupTeamConflict   = errors.New("team already paired in this week")
)

type MatchupRepository interface {
	// CreateWeekMatchups inserts team pairings and fills in their ids.
	CreateWeekMatchups(ctx context.Context, exec SQLExecutor, matchups []*models.WeekMatchup) error
	// CreatePlayerMatchups inserts player pairings in slice order.
	CreatePlayerMatchups(ctx context.Context, exec SQLExecutor, matchups []*models.PlayerMatchupInfo) error
	// ListByWeekIDs returns matchups grouped by week id, with player
	// matchups, games and strikes populated.
	ListByWeekIDs(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.WeekMatchup, error)
	// GetPlayerMatchup returns the player matchup and the id of its week.
	GetPlayerMatchup(ctx context.Context, exec SQLExecutor, id int) (*models.PlayerMatchupInfo, int, error)
	AddGame(ctx context.Context, exec SQLExecutor, game *models.MatchGameInfo) error
	AddStrike(ctx context.Context, exec SQLExecutor, strike *models.Strike) error
}

type postgresMatchupRepository struct {
	db *sql.DB
}

func NewPostgresMatchupRepository(db *sql.DB) MatchupRepository {
	return &postgresMatchupRepository{db: db}
}

func (r *postgresMatchupRepository) CreateWeekMatchups(ctx context.Context, exec SQLExecutor, matchups []*models.WeekMatchup) error {
	ex := executor(r.db, exec)
	query := `INSERT INTO week_matchups (week_id, team1_id, team2_id) VALUES ($1, $2, $3) RETURNING id`

	for _, wm := range matchups {
		if err := ex.QueryRowContext(ctx, query, wm.WeekID, wm.Team1ID, wm.Team2ID).Scan(&wm.ID); err != nil {
			if code, constraint, ok := pqCode(err); ok {
				switch code {
				case pqUniqueViolation:
					return ErrMatchupTeamConflict
				case pqCheckViolation, pqForeignKeyViolation:
					return fmt.Errorf("%w: %s", ErrMatchupInvalid, constraint)
				}
			}
			return fmt.Errorf("failed to create week matchup: %w", err)
		}
	}
	return nil
}

func (r *postgresMatchupRepository) CreatePlayerMatchups(ctx context.Context, exec SQLExecutor, matchups []*models.PlayerMatchupInfo) error {
	ex := executor(r.db, exec)
	query := `
		INSERT INTO player_matchups (week_matchup_id, player1_id, player2_id, is_feature, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i, pm := range matchups {
		err := ex.QueryRowContext(ctx, query, pm.WeekMatchupID, pm.Player1ID, pm.Player2ID, pm.IsFeature, i).Scan(&pm.ID)
		if err != nil {
			if code, constraint, ok := pqCode(err); ok {
				switch code {
				case pqUniqueViolation, pqCheckViolation, pqForeignKeyViolation:
					return fmt.Errorf("%w: %s", ErrMatchupInvalid, constraint)
				}
			}
			return fmt.Errorf("failed to create player matchup: %w", err)
		}
	}
	return nil
}

func (r *postgresMatchupRepository) ListByWeekIDs(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.WeekMatchup, error) {
	out := make(map[int][]models.WeekMatchup, len(weekIDs))
	if len(weekIDs) == 0 {
		return out, nil
	}
	ex := executor(r.db, exec)
	ids := pq.Array(toInt64(weekIDs))

	games, err := r.listGames(ctx, ex, ids)
	if err != nil {
		return nil, err
	}
	strikes, err := r.listStrikes(ctx, ex, ids)
	if err != nil {
		return nil, err
	}
	players, err := r.listPlayerMatchups(ctx, ex, ids, games, strikes)
	if err != nil {
		return nil, err
	}

	rows, err := ex.QueryContext(ctx, `
		SELECT id, week_id, team1_id, team2_id
		FROM week_matchups
		WHERE week_id = ANY($1)
		ORDER BY week_id, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list week matchups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wm models.WeekMatchup
		if err := rows.Scan(&wm.ID, &wm.WeekID, &wm.Team1ID, &wm.Team2ID); err != nil {
			return nil, fmt.Errorf("failed to scan week matchup row: %w", err)
		}
		wm.PlayerMatchups = players[wm.ID]
		if wm.PlayerMatchups == nil {
			wm.PlayerMatchups = []models.PlayerMatchupInfo{}
		}
		out[wm.WeekID] = append(out[wm.WeekID], wm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week matchup rows: %w", err)
	}
	return out, nil
}

func (r *postgresMatchupRepository) listPlayerMatchups(
	ctx context.Context,
	ex SQLExecutor,
	weekIDs interface{},
	games map[int][]models.MatchGameInfo,
	strikes map[int][]models.Strike,
) (map[int][]models.PlayerMatchupInfo, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT pm.id, pm.week_matchup_id, pm.player1_id, pm.player2_id, pm.is_feature
		FROM player_matchups pm
		JOIN week_matchups wm ON wm.id = pm.week_matchup_id
		WHERE wm.week_id = ANY($1)
		ORDER BY pm.week_matchup_id, pm.position, pm.id`, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list player matchups: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]models.PlayerMatchupInfo)
	for rows.Next() {
		var pm models.PlayerMatchupInfo
		if err := rows.Scan(&pm.ID, &pm.WeekMatchupID, &pm.Player1ID, &pm.Player2ID, &pm.IsFeature); err != nil {
			return nil, fmt.Errorf("failed to scan player matchup row: %w", err)
		}
		pm.Games = games[pm.ID]
		if pm.Games == nil {
			pm.Games = []models.MatchGameInfo{}
		}
		pm.Strikes = strikes[pm.ID]
		if pm.Strikes == nil {
			pm.Strikes = []models.Strike{}
		}
		out[pm.WeekMatchupID] = append(out[pm.WeekMatchupID], pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player matchup rows: %w", err)
	}
	return out, nil
}

func (r *postgresMatchupRepository) listGames(ctx context.Context, ex SQLExecutor, weekIDs interface{}) (map[int][]models.MatchGameInfo, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT g.id, g.player_matchup_id, g.game_number, g.winner_id,
		       g.player1_keys, g.player2_keys, g.went_to_time, g.loser_conceded, g.reported_at
		FROM match_games g
		JOIN player_matchups pm ON pm.id = g.player_matchup_id
		JOIN week_matchups wm ON wm.id = pm.week_matchup_id
		WHERE wm.week_id = ANY($1)
		ORDER BY g.player_matchup_id, g.game_number`, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list match games: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]models.MatchGameInfo)
	for rows.Next() {
		var g models.MatchGameInfo
		if err := rows.Scan(
			&g.ID, &g.PlayerMatchupID, &g.GameNumber, &g.WinnerID,
			&g.Player1Keys, &g.Player2Keys, &g.WentToTime, &g.LoserConceded, &g.ReportedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match game row: %w", err)
		}
		out[g.PlayerMatchupID] = append(out[g.PlayerMatchupID], g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match game rows: %w", err)
	}
	return out, nil
}

func (r *postgresMatchupRepository) listStrikes(ctx context.Context, ex SQLExecutor, weekIDs interface{}) (map[int][]models.Strike, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT s.id, s.player_matchup_id, s.striker_id, s.deck_id, s.created_at
		FROM strikes s
		JOIN player_matchups pm ON pm.id = s.player_matchup_id
		JOIN week_matchups wm ON wm.id = pm.week_matchup_id
		WHERE wm.week_id = ANY($1)
		ORDER BY s.player_matchup_id, s.id`, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list strikes: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]models.Strike)
	for rows.Next() {
		var s models.Strike
		if err := rows.Scan(&s.ID, &s.PlayerMatchupID, &s.StrikerID, &s.DeckID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan strike row: %w", err)
		}
		out[s.PlayerMatchupID] = append(out[s.PlayerMatchupID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strike rows: %w", err)
	}
	return out, nil
}

func (r *postgresMatchupRepository) GetPlayerMatchup(ctx context.Context, exec SQLExecutor, id int) (*models.PlayerMatchupInfo, int, error) {
	ex := executor(r.db, exec)

	pm := &models.PlayerMatchupInfo{}
	var weekID int
	err := ex.QueryRowContext(ctx, `
		SELECT pm.id, pm.week_matchup_id, pm.player1_id, pm.player2_id, pm.is_feature, wm.week_id
		FROM player_matchups pm
		JOIN week_matchups wm ON wm.id = pm.week_matchup_id
		WHERE pm.id = $1`, id,
	).Scan(&pm.ID, &pm.WeekMatchupID, &pm.Player1ID, &pm.Player2ID, &pm.IsFeature, &weekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrPlayerMatchupNotFound
		}
		return nil, 0, fmt.Errorf("failed to get player matchup %d: %w", id, err)
	}

	rows, err := ex.QueryContext(ctx, `
		SELECT id, player_matchup_id, game_number, winner_id,
		       player1_keys, player2_keys, went_to_time, loser_conceded, reported_at
		FROM match_games
		WHERE player_matchup_id = $1
		ORDER BY game_number`, id)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list games for player matchup %d: %w", id, err)
	}
	defer rows.Close()

	pm.Games = make([]models.MatchGameInfo, 0)
	for rows.Next() {
		var g models.MatchGameInfo
		if err := rows.Scan(
			&g.ID, &g.PlayerMatchupID, &g.GameNumber, &g.WinnerID,
			&g.Player1Keys, &g.Player2Keys, &g.WentToTime, &g.LoserConceded, &g.ReportedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan match game row: %w", err)
		}
		pm.Games = append(pm.Games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating match game rows: %w", err)
	}
	pm.Strikes = []models.Strike{}
	return pm, weekID, nil
}

func (r *postgresMatchupRepository) AddGame(ctx context.Context, exec SQLExecutor, game *models.MatchGameInfo) error {
	query := `
		INSERT INTO match_games (player_matchup_id, game_number, winner_id, player1_keys, player2_keys, went_to_time, loser_conceded)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, reported_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		game.PlayerMatchupID,
		game.GameNumber,
		game.WinnerID,
		game.Player1Keys,
		game.Player2Keys,
		game.WentToTime,
		game.LoserConceded,
	).Scan(&game.ID, &game.ReportedAt)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrGameNumberConflict
			case pqForeignKeyViolation:
				return ErrPlayerMatchupNotFound
			case pqCheckViolation:
				return fmt.Errorf("%w: %s", ErrMatchupInvalid, constraint)
			}
		}
		return fmt.Errorf("failed to add game: %w", err)
	}
	return nil
}

func (r *postgresMatchupRepository) AddStrike(ctx context.Context, exec SQLExecutor, strike *models.Strike) error {
	err := executor(r.db, exec).QueryRowContext(ctx, `
		INSERT INTO strikes (player_matchup_id, striker_id, deck_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		strike.PlayerMatchupID, strike.StrikerID, strike.DeckID,
	).Scan(&strike.ID, &strike.CreatedAt)
	if err != nil {
		if code, _, ok := pqCode(err); ok && code == pqForeignKeyViolation {
			return ErrPlayerMatchupNotFound
		}
		return fmt.Errorf("failed to add strike: %w", err)
	}
	return nil
}

func toInt64(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
