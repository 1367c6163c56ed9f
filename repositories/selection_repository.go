package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/team-league/models"
)

var ErrSelectionInvalid = errors.New("selection references unknown week, team or user")

// SelectionRepository stores per-week feature designations and deck picks.
type SelectionRepository interface {
	UpsertFeature(ctx context.Context, exec SQLExecutor, fd models.FeatureDesignation) error
	ListFeatures(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.FeatureDesignation, error)
	UpsertDeckSelection(ctx context.Context, exec SQLExecutor, ds *models.DeckSelection) error
	ListDeckSelections(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.DeckSelection, error)
}

type postgresSelectionRepository struct {
	db *sql.DB
}

func NewPostgresSelectionRepository(db *sql.DB) SelectionRepository {
	return &postgresSelectionRepository{db: db}
}

func (r *postgresSelectionRepository) UpsertFeature(ctx context.Context, exec SQLExecutor, fd models.FeatureDesignation) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `
		INSERT INTO feature_designations (week_id, team_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (week_id, team_id) DO UPDATE SET user_id = EXCLUDED.user_id`,
		fd.WeekID, fd.TeamID, fd.UserID)
	if err != nil {
		if code, _, ok := pqCode(err); ok && code == pqForeignKeyViolation {
			return ErrSelectionInvalid
		}
		return fmt.Errorf("failed to upsert feature designation: %w", err)
	}
	return nil
}

func (r *postgresSelectionRepository) ListFeatures(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.FeatureDesignation, error) {
	out := make(map[int][]models.FeatureDesignation, len(weekIDs))
	if len(weekIDs) == 0 {
		return out, nil
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, `
		SELECT week_id, team_id, user_id
		FROM feature_designations
		WHERE week_id = ANY($1)
		ORDER BY week_id, team_id`, pq.Array(toInt64(weekIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list feature designations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fd models.FeatureDesignation
		if err := rows.Scan(&fd.WeekID, &fd.TeamID, &fd.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan feature designation row: %w", err)
		}
		out[fd.WeekID] = append(out[fd.WeekID], fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feature designation rows: %w", err)
	}
	return out, nil
}

func (r *postgresSelectionRepository) UpsertDeckSelection(ctx context.Context, exec SQLExecutor, ds *models.DeckSelection) error {
	err := executor(r.db, exec).QueryRowContext(ctx, `
		INSERT INTO deck_selections (week_id, user_id, deck_ids, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (week_id, user_id) DO UPDATE
		SET deck_ids = EXCLUDED.deck_ids, updated_at = NOW()
		RETURNING updated_at`,
		ds.WeekID, ds.UserID, pq.Array(ds.DeckIDs),
	).Scan(&ds.UpdatedAt)
	if err != nil {
		if code, _, ok := pqCode(err); ok && code == pqForeignKeyViolation {
			return ErrSelectionInvalid
		}
		return fmt.Errorf("failed to upsert deck selection: %w", err)
	}
	return nil
}

func (r *postgresSelectionRepository) ListDeckSelections(ctx context.Context, exec SQLExecutor, weekIDs []int) (map[int][]models.DeckSelection, error) {
	out := make(map[int][]models.DeckSelection, len(weekIDs))
	if len(weekIDs) == 0 {
		return out, nil
	}

	rows, err := executor(r.db, exec).QueryContext(ctx, `
		SELECT week_id, user_id, deck_ids, updated_at
		FROM deck_selections
		WHERE week_id = ANY($1)
		ORDER BY week_id, user_id`, pq.Array(toInt64(weekIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list deck selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ds models.DeckSelection
		var decks pq.StringArray
		if err := rows.Scan(&ds.WeekID, &ds.UserID, &decks, &ds.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck selection row: %w", err)
		}
		ds.DeckIDs = []string(decks)
		if ds.DeckIDs == nil {
			ds.DeckIDs = []string{}
		}
		out[ds.WeekID] = append(out[ds.WeekID], ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck selection rows: %w", err)
	}
	return out, nil
}
