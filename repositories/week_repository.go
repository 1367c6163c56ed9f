package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrWeekNotFound       = errors.New("week not found")
	ErrWeekNumberConflict = errors.New("week number already exists in this league")
	ErrWeekLeagueInvalid  = errors.New("week league conflict or invalid")
	ErrWeekInvalid        = errors.New("week settings violate constraints")
	ErrWeekStatusConflict = errors.New("week status changed concurrently")
	ErrWeekNotInSetup     = errors.New("week can only be deleted during setup")
)

type WeekRepository interface {
	Create(ctx context.Context, exec SQLExecutor, week *models.LeagueWeek) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueWeek, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]models.LeagueWeek, error)
	ListIDsByStatus(ctx context.Context, exec SQLExecutor, status models.WeekStatus) ([]int, error)
	// UpdateStatus moves the week from one status to another only if it is
	// still in from. Published and completed timestamps are stamped with at.
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.WeekStatus, at time.Time) error
	// DeleteInSetup removes the week only while it is in setup.
	DeleteInSetup(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresWeekRepository struct {
	db *sql.DB
}

func NewPostgresWeekRepository(db *sql.DB) WeekRepository {
	return &postgresWeekRepository{db: db}
}

const weekColumns = `id, league_id, week_number, format_type, best_of_n, status, created_at, published_at, completed_at`

func scanWeek(rowScanner interface {
	Scan(dest ...interface{}) error
}, w *models.LeagueWeek) error {
	return rowScanner.Scan(
		&w.ID,
		&w.LeagueID,
		&w.WeekNumber,
		&w.FormatType,
		&w.BestOfN,
		&w.Status,
		&w.CreatedAt,
		&w.PublishedAt,
		&w.CompletedAt,
	)
}

func (r *postgresWeekRepository) Create(ctx context.Context, exec SQLExecutor, week *models.LeagueWeek) error {
	query := `
		INSERT INTO league_weeks (league_id, week_number, format_type, best_of_n, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		week.LeagueID,
		week.WeekNumber,
		week.FormatType,
		week.BestOfN,
		week.Status,
	).Scan(&week.ID, &week.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok {
			switch code {
			case pqUniqueViolation:
				if constraint == "league_weeks_league_id_week_number_key" {
					return ErrWeekNumberConflict
				}
			case pqForeignKeyViolation:
				return ErrWeekLeagueInvalid
			case pqCheckViolation:
				return fmt.Errorf("%w: %s", ErrWeekInvalid, constraint)
			}
		}
		return fmt.Errorf("failed to create week: %w", err)
	}
	return nil
}

func (r *postgresWeekRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueWeek, error) {
	w := &models.LeagueWeek{}
	row := executor(r.db, exec).QueryRowContext(ctx, `SELECT `+weekColumns+` FROM league_weeks WHERE id = $1`, id)
	if err := scanWeek(row, w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to get week %d: %w", id, err)
	}
	return w, nil
}

func (r *postgresWeekRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]models.LeagueWeek, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx,
		`SELECT `+weekColumns+` FROM league_weeks WHERE league_id = $1 ORDER BY week_number, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	weeks := make([]models.LeagueWeek, 0)
	for rows.Next() {
		var w models.LeagueWeek
		if err := scanWeek(rows, &w); err != nil {
			return nil, fmt.Errorf("failed to scan week row: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week rows: %w", err)
	}
	return weeks, nil
}

func (r *postgresWeekRepository) ListIDsByStatus(ctx context.Context, exec SQLExecutor, status models.WeekStatus) ([]int, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx,
		`SELECT id FROM league_weeks WHERE status = $1 ORDER BY id`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks with status %s: %w", status, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan week id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresWeekRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.WeekStatus, at time.Time) error {
	ex := executor(r.db, exec)
	query := `
		UPDATE league_weeks
		SET status = $3,
		    published_at = CASE WHEN $3 = 'published' THEN $4 ELSE published_at END,
		    completed_at = CASE WHEN $3 = 'completed' THEN $4 ELSE completed_at END
		WHERE id = $1 AND status = $2`

	result, err := ex.ExecContext(ctx, query, id, from, to, at)
	if err != nil {
		return fmt.Errorf("failed to update status of week %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrWeekStatusConflict); err != nil {
		if errors.Is(err, ErrWeekStatusConflict) {
			return r.missingOr(ctx, ex, id, err)
		}
		return err
	}
	return nil
}

func (r *postgresWeekRepository) DeleteInSetup(ctx context.Context, exec SQLExecutor, id int) error {
	ex := executor(r.db, exec)
	result, err := ex.ExecContext(ctx, `DELETE FROM league_weeks WHERE id = $1 AND status = 'setup'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete week %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrWeekNotInSetup); err != nil {
		if errors.Is(err, ErrWeekNotInSetup) {
			return r.missingOr(ctx, ex, id, err)
		}
		return err
	}
	return nil
}

// missingOr returns ErrWeekNotFound when the week does not exist, else err.
func (r *postgresWeekRepository) missingOr(ctx context.Context, ex SQLExecutor, id int, err error) error {
	var exists bool
	if qErr := ex.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM league_weeks WHERE id = $1)`, id).Scan(&exists); qErr != nil {
		return fmt.Errorf("failed to check week %d: %w", id, qErr)
	}
	if !exists {
		return ErrWeekNotFound
	}
	return err
}
