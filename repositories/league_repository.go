package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueNameConflict = errors.New("league name already exists")
	ErrLeagueInvalid      = errors.New("league settings violate constraints")
)

type LeagueRepository interface {
	Create(ctx context.Context, exec SQLExecutor, league *models.League) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.League, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, exec SQLExecutor, league *models.League) error {
	query := `
		INSERT INTO leagues (name, team_size, num_teams, week_bonus_points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		league.Name,
		league.TeamSize,
		league.NumTeams,
		league.WeekBonusPoints,
	).Scan(&league.ID, &league.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok {
			switch code {
			case pqUniqueViolation:
				if constraint == "leagues_name_key" {
					return ErrLeagueNameConflict
				}
			case pqCheckViolation:
				return fmt.Errorf("%w: %s", ErrLeagueInvalid, constraint)
			}
		}
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.League, error) {
	query := `
		SELECT id, name, team_size, num_teams, week_bonus_points, created_at
		FROM leagues
		WHERE id = $1`

	l := &models.League{}
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.TeamSize, &l.NumTeams, &l.WeekBonusPoints, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}
	return l, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.League, error) {
	query := `
		SELECT id, name, team_size, num_teams, week_bonus_points, created_at
		FROM leagues
		ORDER BY id`

	rows, err := executor(r.db, exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		l := &models.League{}
		if err := rows.Scan(&l.ID, &l.Name, &l.TeamSize, &l.NumTeams, &l.WeekBonusPoints, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", err)
		}
		leagues = append(leagues, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating league rows: %w", err)
	}
	return leagues, nil
}
