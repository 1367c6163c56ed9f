package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/team-league/models"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name already exists in this league")
	ErrPlayerAlreadyOnTeam = errors.New("player already belongs to a team in this league")
	ErrTeamLeagueInvalid   = errors.New("team league conflict or invalid")
)

type TeamRepository interface {
	// EnsureUser returns the id for username, creating the user if needed.
	EnsureUser(ctx context.Context, exec SQLExecutor, username string) (int, error)
	// Create inserts the team and its members in roster order. Member
	// user ids must already exist.
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) EnsureUser(ctx context.Context, exec SQLExecutor, username string) (int, error) {
	query := `
		INSERT INTO users (username) VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id`

	var id int
	if err := executor(r.db, exec).QueryRowContext(ctx, query, username).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure user %q: %w", username, err)
	}
	return id, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	ex := executor(r.db, exec)

	err := ex.QueryRowContext(ctx,
		`INSERT INTO teams (league_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		team.LeagueID, team.Name,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return mapTeamError(err)
	}

	for i, m := range team.Members {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO team_members (team_id, league_id, user_id, is_captain, position)
			VALUES ($1, $2, $3, $4, $5)`,
			team.ID, team.LeagueID, m.UserID, m.IsCaptain, i,
		)
		if err != nil {
			return mapTeamError(err)
		}
	}
	return nil
}

func mapTeamError(err error) error {
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pqUniqueViolation:
			switch constraint {
			case "teams_league_id_name_key":
				return ErrTeamNameConflict
			case "team_members_league_id_user_id_key", "team_members_pkey":
				return ErrPlayerAlreadyOnTeam
			}
		case pqForeignKeyViolation:
			return ErrTeamLeagueInvalid
		}
	}
	return fmt.Errorf("failed to create team: %w", err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	ex := executor(r.db, exec)

	t := &models.Team{}
	err := ex.QueryRowContext(ctx,
		`SELECT id, league_id, name, created_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.LeagueID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := r.listMembers(ctx, ex, `tm.team_id = $1`, id)
	if err != nil {
		return nil, err
	}
	t.Members = members[t.ID]
	if t.Members == nil {
		t.Members = []models.TeamMember{}
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]models.Team, error) {
	ex := executor(r.db, exec)

	rows, err := ex.QueryContext(ctx,
		`SELECT id, league_id, name, created_at FROM teams WHERE league_id = $1 ORDER BY id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	members, err := r.listMembers(ctx, ex, `tm.league_id = $1`, leagueID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Members = members[teams[i].ID]
		if teams[i].Members == nil {
			teams[i].Members = []models.TeamMember{}
		}
	}
	return teams, nil
}

func (r *postgresTeamRepository) listMembers(ctx context.Context, ex SQLExecutor, where string, arg int) (map[int][]models.TeamMember, error) {
	query := `
		SELECT tm.team_id, tm.user_id, u.username, tm.is_captain
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE ` + where + `
		ORDER BY tm.team_id, tm.position`

	rows, err := ex.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]models.TeamMember)
	for rows.Next() {
		var teamID int
		var m models.TeamMember
		if err := rows.Scan(&teamID, &m.UserID, &m.Username, &m.IsCaptain); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		out[teamID] = append(out[teamID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return out, nil
}
