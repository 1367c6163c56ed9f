package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/repositories"
)

type CreateLeagueInput struct {
	Name            string `json:"name"`
	TeamSize        int    `json:"team_size"`
	NumTeams        int    `json:"num_teams"`
	WeekBonusPoints *int   `json:"week_bonus_points,omitempty"`
}

type TeamMemberInput struct {
	Username  string `json:"username"`
	IsCaptain bool   `json:"is_captain"`
}

type CreateTeamInput struct {
	Name    string            `json:"name"`
	Members []TeamMemberInput `json:"members"`
}

type LeagueService interface {
	CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetLeague(ctx context.Context, id int) (*models.League, error)
	ListLeagues(ctx context.Context) ([]*models.League, error)
	CreateTeam(ctx context.Context, leagueID int, input CreateTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, leagueID int) ([]models.Team, error)
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	teamRepo   repositories.TeamRepository
	tx         repositories.Transactor
	loader     *SnapshotLoader
	logger     *slog.Logger
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	tx repositories.Transactor,
	loader *SnapshotLoader,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		tx:         tx,
		loader:     loader,
		logger:     logger,
	}
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLeagueNameRequired
	}
	if input.TeamSize < 1 {
		return nil, fmt.Errorf("%w: team_size must be positive", ErrValidationFailed)
	}
	if input.NumTeams < 0 {
		return nil, fmt.Errorf("%w: num_teams must not be negative", ErrValidationFailed)
	}
	bonus := models.DefaultWeekBonusPoints
	if input.WeekBonusPoints != nil {
		if *input.WeekBonusPoints < 0 {
			return nil, fmt.Errorf("%w: week_bonus_points must not be negative", ErrValidationFailed)
		}
		bonus = *input.WeekBonusPoints
	}

	league := &models.League{
		Name:            name,
		TeamSize:        input.TeamSize,
		NumTeams:        input.NumTeams,
		WeekBonusPoints: bonus,
	}
	if err := s.leagueRepo.Create(ctx, nil, league); err != nil {
		return nil, handleRepositoryError(err, "creating league %q", name)
	}

	s.logger.InfoContext(ctx, "League created", slog.Int("league_id", league.ID), slog.String("name", league.Name))
	return league, nil
}

// GetLeague returns the league with its teams and weeks.
func (s *leagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	snap, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	league := snap.League
	league.Teams = snap.Teams
	league.Weeks = snap.Weeks
	return &league, nil
}

func (s *leagueService) ListLeagues(ctx context.Context) ([]*models.League, error) {
	leagues, err := s.leagueRepo.List(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "listing leagues")
	}
	return leagues, nil
}

func (s *leagueService) CreateTeam(ctx context.Context, leagueID int, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	league, err := s.leagueRepo.GetByID(ctx, nil, leagueID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading league %d", leagueID)
	}

	members, err := normalizeMembers(input.Members, league.TeamSize)
	if err != nil {
		return nil, err
	}

	if league.NumTeams > 0 {
		teams, err := s.teamRepo.ListByLeague(ctx, nil, leagueID)
		if err != nil {
			return nil, handleRepositoryError(err, "listing teams of league %d", leagueID)
		}
		if len(teams) >= league.NumTeams {
			return nil, fmt.Errorf("%w: league %d already has %d teams", ErrValidationFailed, leagueID, len(teams))
		}
	}

	team := &models.Team{LeagueID: leagueID, Name: name}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		team.Members = make([]models.TeamMember, 0, len(members))
		for _, m := range members {
			userID, err := s.teamRepo.EnsureUser(ctx, exec, m.Username)
			if err != nil {
				return err
			}
			team.Members = append(team.Members, models.TeamMember{
				UserID:    userID,
				Username:  m.Username,
				IsCaptain: m.IsCaptain,
			})
		}
		return s.teamRepo.Create(ctx, exec, team)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "creating team %q in league %d", name, leagueID)
	}

	s.logger.InfoContext(ctx, "Team created",
		slog.Int("league_id", leagueID),
		slog.Int("team_id", team.ID),
		slog.Int("members", len(team.Members)),
	)
	return team, nil
}

// normalizeMembers validates the roster. With no captain flagged the first
// member becomes captain.
func normalizeMembers(in []TeamMemberInput, teamSize int) ([]TeamMemberInput, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: team needs at least one member", ErrValidationFailed)
	}
	if teamSize > 0 && len(in) > teamSize {
		return nil, fmt.Errorf("%w: team has %d members, league allows %d", ErrValidationFailed, len(in), teamSize)
	}

	out := make([]TeamMemberInput, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	captains := 0
	for _, m := range in {
		username := strings.TrimSpace(m.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: member username is required", ErrValidationFailed)
		}
		key := strings.ToLower(username)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: member %q listed twice", ErrValidationFailed, username)
		}
		seen[key] = struct{}{}
		if m.IsCaptain {
			captains++
		}
		out = append(out, TeamMemberInput{Username: username, IsCaptain: m.IsCaptain})
	}

	switch {
	case captains > 1:
		return nil, fmt.Errorf("%w: a team has at most one captain", ErrValidationFailed)
	case captains == 0:
		out[0].IsCaptain = true
	}
	return out, nil
}

func (s *leagueService) ListTeams(ctx context.Context, leagueID int) ([]models.Team, error) {
	if _, err := s.leagueRepo.GetByID(ctx, nil, leagueID); err != nil {
		return nil, handleRepositoryError(err, "loading league %d", leagueID)
	}
	teams, err := s.teamRepo.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, handleRepositoryError(err, "listing teams of league %d", leagueID)
	}
	return teams, nil
}
