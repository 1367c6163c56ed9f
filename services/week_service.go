package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/team-league/lifecycle"
	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/pairing"
	"github.com/Dosada05/team-league/realtime"
	"github.com/Dosada05/team-league/repositories"
	"github.com/Dosada05/team-league/scoring"
)

// WeekView is a week together with what can be done to it next.
type WeekView struct {
	models.LeagueWeek
	LegalActions []lifecycle.Action `json:"legal_actions"`
	CanDelete    bool               `json:"can_delete"`
}

type CreateWeekInput struct {
	WeekNumber int               `json:"week_number"`
	FormatType models.FormatType `json:"format_type"`
	BestOfN    int               `json:"best_of_n"`
}

type ReportGameInput struct {
	GameNumber    int  `json:"game_number"`
	WinnerID      int  `json:"winner_id"`
	Player1Keys   int  `json:"player1_keys"`
	Player2Keys   int  `json:"player2_keys"`
	WentToTime    bool `json:"went_to_time"`
	LoserConceded bool `json:"loser_conceded"`
}

type WeekService interface {
	CreateWeek(ctx context.Context, leagueID int, input CreateWeekInput) (*WeekView, error)
	GetWeek(ctx context.Context, weekID int) (*WeekView, error)
	ListWeeks(ctx context.Context, leagueID int) ([]WeekView, error)
	ApplyAction(ctx context.Context, weekID int, action lifecycle.Action, force bool) (*WeekView, error)
	DeleteWeek(ctx context.Context, weekID int) error

	DesignateFeature(ctx context.Context, weekID, teamID, userID int) (*WeekView, error)
	SelectDecks(ctx context.Context, weekID, userID int, deckIDs []string) (*models.DeckSelection, error)
	ReportGame(ctx context.Context, playerMatchupID int, input ReportGameInput) (*models.MatchGameInfo, error)
	AddStrike(ctx context.Context, playerMatchupID, strikerID int, deckID string) (*models.Strike, error)

	// SweepCompletion runs check-completion on every published week and
	// returns how many weeks were completed.
	SweepCompletion(ctx context.Context) (int, error)
}

type weekService struct {
	leagueRepo    repositories.LeagueRepository
	teamRepo      repositories.TeamRepository
	weekRepo      repositories.WeekRepository
	matchupRepo   repositories.MatchupRepository
	selectionRepo repositories.SelectionRepository
	tx            repositories.Transactor
	loader        *SnapshotLoader
	pairer        pairing.Pairer
	standings     StandingsService
	exporter      *StandingsExporter
	publisher     realtime.Publisher
	logger        *slog.Logger
	now           func() time.Time
}

// NewWeekService wires the week lifecycle. exporter may be nil when object
// storage is not configured.
func NewWeekService(
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	weekRepo repositories.WeekRepository,
	matchupRepo repositories.MatchupRepository,
	selectionRepo repositories.SelectionRepository,
	tx repositories.Transactor,
	loader *SnapshotLoader,
	pairer pairing.Pairer,
	standings StandingsService,
	exporter *StandingsExporter,
	publisher realtime.Publisher,
	logger *slog.Logger,
) WeekService {
	return &weekService{
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		weekRepo:      weekRepo,
		matchupRepo:   matchupRepo,
		selectionRepo: selectionRepo,
		tx:            tx,
		loader:        loader,
		pairer:        pairer,
		standings:     standings,
		exporter:      exporter,
		publisher:     publisher,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func viewOf(week models.LeagueWeek) *WeekView {
	return &WeekView{
		LeagueWeek:   week,
		LegalActions: lifecycle.LegalActions(week),
		CanDelete:    lifecycle.CanDelete(week),
	}
}

func (s *weekService) CreateWeek(ctx context.Context, leagueID int, input CreateWeekInput) (*WeekView, error) {
	if input.WeekNumber < 1 {
		return nil, ErrInvalidWeekNumber
	}
	if !input.FormatType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, input.FormatType)
	}
	if input.BestOfN == 0 {
		input.BestOfN = 1
	}
	if input.BestOfN < 1 || input.BestOfN%2 == 0 {
		return nil, ErrInvalidBestOf
	}
	if _, err := s.leagueRepo.GetByID(ctx, nil, leagueID); err != nil {
		return nil, handleRepositoryError(err, "loading league %d", leagueID)
	}

	week := &models.LeagueWeek{
		LeagueID:   leagueID,
		WeekNumber: input.WeekNumber,
		FormatType: input.FormatType,
		BestOfN:    input.BestOfN,
		Status:     models.WeekStatusSetup,
	}
	if err := s.weekRepo.Create(ctx, nil, week); err != nil {
		return nil, handleRepositoryError(err, "creating week %d in league %d", input.WeekNumber, leagueID)
	}
	week.Matchups = []models.WeekMatchup{}
	week.FeatureDesignations = []models.FeatureDesignation{}
	s.loader.Invalidate(leagueID)

	s.logger.InfoContext(ctx, "Week created",
		slog.Int("league_id", leagueID),
		slog.Int("week_id", week.ID),
		slog.Int("week_number", week.WeekNumber),
		slog.String("format", string(week.FormatType)),
	)
	view := viewOf(*week)
	s.broadcastWeek(view)
	return view, nil
}

func (s *weekService) GetWeek(ctx context.Context, weekID int) (*WeekView, error) {
	week, err := s.loader.LoadWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	return viewOf(week), nil
}

func (s *weekService) ListWeeks(ctx context.Context, leagueID int) ([]WeekView, error) {
	snap, err := s.loader.Load(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	views := make([]WeekView, 0, len(snap.Weeks))
	for _, w := range snap.Weeks {
		views = append(views, *viewOf(w))
	}
	return views, nil
}

func (s *weekService) ApplyAction(ctx context.Context, weekID int, action lifecycle.Action, force bool) (*WeekView, error) {
	week, _, err := s.apply(ctx, weekID, action, force)
	if err != nil {
		return nil, err
	}
	return viewOf(week), nil
}

// apply gathers facts, asks the lifecycle for a decision and writes it.
// The status change and its side effects commit together; the status
// update is conditional on the status the decision was made from.
func (s *weekService) apply(ctx context.Context, weekID int, action lifecycle.Action, force bool) (models.LeagueWeek, lifecycle.Decision, error) {
	week, err := s.loader.LoadWeek(ctx, weekID)
	if err != nil {
		return models.LeagueWeek{}, lifecycle.Decision{}, err
	}
	teams, err := s.teamRepo.ListByLeague(ctx, nil, week.LeagueID)
	if err != nil {
		return models.LeagueWeek{}, lifecycle.Decision{}, handleRepositoryError(err, "listing teams of league %d", week.LeagueID)
	}

	d, err := lifecycle.Decide(week, action, gatherFacts(week, teams, force), s.now)
	if err != nil {
		s.logger.InfoContext(ctx, "Week action rejected",
			slog.Int("week_id", weekID),
			slog.String("action", string(action)),
			slog.String("status", string(week.Status)),
			slog.Any("error", err),
		)
		return models.LeagueWeek{}, lifecycle.Decision{}, err
	}
	if !d.Changed {
		return week, d, nil
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.weekRepo.UpdateStatus(ctx, exec, week.ID, d.From, d.To, d.At); err != nil {
			return err
		}
		switch {
		case d.NeedsTeamPairings:
			return s.createTeamPairings(ctx, exec, &week, teams)
		case d.NeedsPlayerMatchups:
			return s.createPlayerMatchups(ctx, exec, &week, teams)
		}
		return nil
	})
	if err != nil {
		return models.LeagueWeek{}, lifecycle.Decision{}, handleRepositoryError(err, "applying %s to week %d", action, weekID)
	}
	s.loader.Invalidate(week.LeagueID)

	week.Status = d.To
	at := d.At
	if d.Publishes {
		week.PublishedAt = &at
	}
	if d.Completes {
		week.CompletedAt = &at
	}

	s.logger.InfoContext(ctx, "Week transition applied",
		slog.Int("league_id", week.LeagueID),
		slog.Int("week_id", week.ID),
		slog.String("action", string(action)),
		slog.String("from", string(d.From)),
		slog.String("to", string(d.To)),
		slog.Bool("force", force),
	)

	s.broadcastWeek(viewOf(week))
	if d.Publishes || d.Completes {
		s.publishStandings(ctx, week.LeagueID, week.WeekNumber, true)
	}
	return week, d, nil
}

// gatherFacts builds the decision input. Once team pairings exist only
// teams that play this week are enrolled, so a bye team needs neither a
// feature nor deck selections.
func gatherFacts(week models.LeagueWeek, teams []models.Team, force bool) lifecycle.Facts {
	facts := lifecycle.Facts{
		HasMatchups:       len(week.Matchups) > 0,
		TeamCount:         len(teams),
		UndecidedMatchups: scoring.UndecidedCount(week),
		Force:             force,
	}

	for _, t := range teams {
		if facts.HasMatchups {
			if _, plays := week.MatchupForTeam(t.ID); !plays {
				continue
			}
		}

		tf := lifecycle.TeamFact{TeamID: t.ID}
		if uid, ok := week.FeatureFor(t.ID); ok && t.HasMember(uid) {
			tf.FeatureUserID = uid
		}
		facts.Teams = append(facts.Teams, tf)

		for _, m := range t.Members {
			pf := lifecycle.PlayerFact{UserID: m.UserID, Username: m.Username}
			if ds, ok := week.DeckSelectionFor(m.UserID); ok {
				pf.DecksSelected = len(ds.DeckIDs)
			}
			facts.Players = append(facts.Players, pf)
		}
	}
	return facts
}

func (s *weekService) createTeamPairings(ctx context.Context, exec repositories.SQLExecutor, week *models.LeagueWeek, teams []models.Team) error {
	pairs, err := s.pairer.PairTeams(ctx, pairing.PairTeamsParams{Week: *week, Teams: teams})
	if err != nil {
		return fmt.Errorf("%s pairer: %w", s.pairer.GetName(), err)
	}

	rows := make([]*models.WeekMatchup, len(pairs))
	for i := range pairs {
		pairs[i].WeekID = week.ID
		rows[i] = &pairs[i]
	}
	if err := s.matchupRepo.CreateWeekMatchups(ctx, exec, rows); err != nil {
		return err
	}

	week.Matchups = pairs
	for i := range week.Matchups {
		week.Matchups[i].PlayerMatchups = []models.PlayerMatchupInfo{}
	}
	return nil
}

func (s *weekService) createPlayerMatchups(ctx context.Context, exec repositories.SQLExecutor, week *models.LeagueWeek, teams []models.Team) error {
	for i := range week.Matchups {
		wm := &week.Matchups[i]
		team1, ok1 := teamByID(teams, wm.Team1ID)
		team2, ok2 := teamByID(teams, wm.Team2ID)
		if !ok1 || !ok2 {
			return fmt.Errorf("%w: matchup %d references a team outside the league", ErrValidationFailed, wm.ID)
		}

		pms, err := s.pairer.PairPlayers(ctx, pairing.PairPlayersParams{
			Week:    *week,
			Matchup: *wm,
			Team1:   team1,
			Team2:   team2,
		})
		if err != nil {
			return fmt.Errorf("%s pairer: %w", s.pairer.GetName(), err)
		}

		rows := make([]*models.PlayerMatchupInfo, len(pms))
		for j := range pms {
			pms[j].WeekMatchupID = wm.ID
			pms[j].Games = []models.MatchGameInfo{}
			rows[j] = &pms[j]
		}
		if err := s.matchupRepo.CreatePlayerMatchups(ctx, exec, rows); err != nil {
			return err
		}
		wm.PlayerMatchups = pms
	}
	return nil
}

func (s *weekService) DeleteWeek(ctx context.Context, weekID int) error {
	week, err := s.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return handleRepositoryError(err, "loading week %d", weekID)
	}
	if !lifecycle.CanDelete(*week) {
		return ErrWeekNotDeletable
	}
	if err := s.weekRepo.DeleteInSetup(ctx, nil, weekID); err != nil {
		return handleRepositoryError(err, "deleting week %d", weekID)
	}
	s.loader.Invalidate(week.LeagueID)

	s.logger.InfoContext(ctx, "Week deleted", slog.Int("league_id", week.LeagueID), slog.Int("week_id", weekID))
	return nil
}

func (s *weekService) DesignateFeature(ctx context.Context, weekID, teamID, userID int) (*WeekView, error) {
	week, err := s.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading week %d", weekID)
	}
	if !lifecycle.AcceptsFeatures(week.Status) {
		return nil, ErrFeaturesClosed
	}
	if !week.FormatType.UsesFeatureTiebreak() {
		return nil, fmt.Errorf("%w: format %s does not use feature players", ErrValidationFailed, week.FormatType)
	}

	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading team %d", teamID)
	}
	if team.LeagueID != week.LeagueID {
		return nil, ErrTeamNotInLeague
	}
	if !team.HasMember(userID) {
		return nil, ErrUserNotOnTeam
	}

	fd := models.FeatureDesignation{WeekID: weekID, TeamID: teamID, UserID: userID}
	if err := s.selectionRepo.UpsertFeature(ctx, nil, fd); err != nil {
		return nil, handleRepositoryError(err, "designating feature for team %d in week %d", teamID, weekID)
	}
	s.loader.Invalidate(week.LeagueID)

	view, err := s.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	s.broadcastWeek(view)
	return view, nil
}

func (s *weekService) SelectDecks(ctx context.Context, weekID, userID int, deckIDs []string) (*models.DeckSelection, error) {
	week, err := s.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading week %d", weekID)
	}
	if !lifecycle.AcceptsDeckSelection(week.Status) {
		return nil, ErrSelectionClosed
	}

	ids, err := normalizeDeckIDs(deckIDs)
	if err != nil {
		return nil, err
	}
	if need := week.FormatType.RequiredDecks(); len(ids) > need {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrTooManyDecks, week.FormatType, need, len(ids))
	}

	teams, err := s.teamRepo.ListByLeague(ctx, nil, week.LeagueID)
	if err != nil {
		return nil, handleRepositoryError(err, "listing teams of league %d", week.LeagueID)
	}
	if _, ok := leagueMembers(teams)[userID]; !ok {
		return nil, ErrUserNotInLeague
	}

	ds := &models.DeckSelection{WeekID: weekID, UserID: userID, DeckIDs: ids}
	if err := s.selectionRepo.UpsertDeckSelection(ctx, nil, ds); err != nil {
		return nil, handleRepositoryError(err, "saving decks of user %d for week %d", userID, weekID)
	}
	s.loader.Invalidate(week.LeagueID)
	return ds, nil
}

func (s *weekService) ReportGame(ctx context.Context, playerMatchupID int, input ReportGameInput) (*models.MatchGameInfo, error) {
	pm, weekID, err := s.matchupRepo.GetPlayerMatchup(ctx, nil, playerMatchupID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading player matchup %d", playerMatchupID)
	}
	week, err := s.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading week %d", weekID)
	}
	if !lifecycle.AcceptsGames(week.Status) {
		return nil, ErrReportingClosed
	}
	if input.GameNumber < 1 {
		return nil, ErrInvalidGameNumber
	}
	if !pm.Involves(input.WinnerID) {
		return nil, ErrInvalidWinner
	}
	if _, decided := scoring.Outcome(*pm, week.BestOfN); decided {
		return nil, ErrMatchupDecided
	}

	game := &models.MatchGameInfo{
		PlayerMatchupID: pm.ID,
		GameNumber:      input.GameNumber,
		WinnerID:        input.WinnerID,
		Player1Keys:     input.Player1Keys,
		Player2Keys:     input.Player2Keys,
		WentToTime:      input.WentToTime,
		LoserConceded:   input.LoserConceded,
	}
	if err := s.matchupRepo.AddGame(ctx, nil, game); err != nil {
		return nil, handleRepositoryError(err, "reporting game %d of player matchup %d", input.GameNumber, pm.ID)
	}
	s.loader.Invalidate(week.LeagueID)

	s.logger.InfoContext(ctx, "Game reported",
		slog.Int("week_id", weekID),
		slog.Int("player_matchup_id", pm.ID),
		slog.Int("game_number", game.GameNumber),
		slog.Int("winner_id", game.WinnerID),
	)

	completed := false
	if week.Status == models.WeekStatusPublished {
		_, d, err := s.apply(ctx, weekID, lifecycle.ActionCheckCompletion, false)
		if err != nil {
			s.logger.WarnContext(ctx, "Completion check after game report failed",
				slog.Int("week_id", weekID), slog.Any("error", err))
		}
		completed = err == nil && d.Completes
	}
	if !completed {
		if view, err := s.GetWeek(ctx, weekID); err == nil {
			s.broadcastWeek(view)
		}
		if week.Status.Qualifies() {
			s.publishStandings(ctx, week.LeagueID, week.WeekNumber, false)
		}
	}
	return game, nil
}

func (s *weekService) AddStrike(ctx context.Context, playerMatchupID, strikerID int, deckID string) (*models.Strike, error) {
	deckID = strings.TrimSpace(deckID)
	if deckID == "" {
		return nil, fmt.Errorf("%w: deck_id is required", ErrValidationFailed)
	}

	pm, weekID, err := s.matchupRepo.GetPlayerMatchup(ctx, nil, playerMatchupID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading player matchup %d", playerMatchupID)
	}
	week, err := s.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return nil, handleRepositoryError(err, "loading week %d", weekID)
	}
	if !lifecycle.AcceptsStrikes(week.Status) {
		return nil, ErrStrikesClosed
	}
	if !pm.Involves(strikerID) {
		return nil, ErrPlayerNotInMatchup
	}

	strike := &models.Strike{PlayerMatchupID: pm.ID, StrikerID: strikerID, DeckID: deckID}
	if err := s.matchupRepo.AddStrike(ctx, nil, strike); err != nil {
		return nil, handleRepositoryError(err, "adding strike to player matchup %d", pm.ID)
	}
	s.loader.Invalidate(week.LeagueID)
	return strike, nil
}

func (s *weekService) SweepCompletion(ctx context.Context) (int, error) {
	ids, err := s.weekRepo.ListIDsByStatus(ctx, nil, models.WeekStatusPublished)
	if err != nil {
		return 0, handleRepositoryError(err, "listing published weeks")
	}

	completed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		_, d, err := s.apply(ctx, id, lifecycle.ActionCheckCompletion, false)
		if err != nil {
			if !errors.Is(err, ErrWeekStatusConflict) {
				s.logger.ErrorContext(ctx, "Completion sweep failed for week", slog.Int("week_id", id), slog.Any("error", err))
			}
			continue
		}
		if d.Completes {
			completed++
		}
	}
	return completed, nil
}

func (s *weekService) broadcastWeek(view *WeekView) {
	s.publisher.BroadcastToRoom(realtime.LeagueRoom(view.LeagueID), realtime.Message{
		Type:    realtime.MessageWeekUpdated,
		Payload: view,
	})
}

// publishStandings pushes fresh standings to subscribers and, when export
// is set and storage is configured, uploads them. Failures are logged only.
func (s *weekService) publishStandings(ctx context.Context, leagueID, weekNumber int, export bool) {
	view, err := s.standings.GetStandings(ctx, leagueID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute standings", slog.Int("league_id", leagueID), slog.Any("error", err))
		return
	}
	s.publisher.BroadcastToRoom(realtime.LeagueRoom(leagueID), realtime.Message{
		Type:    realtime.MessageStandingsUpdated,
		Payload: view,
	})

	if !export || s.exporter == nil {
		return
	}
	res, err := s.exporter.Export(ctx, view, weekNumber)
	if err != nil {
		s.logger.ErrorContext(ctx, "Standings export failed",
			slog.Int("league_id", leagueID), slog.Int("week_number", weekNumber), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "Standings exported",
		slog.Int("league_id", leagueID),
		slog.Int("week_number", weekNumber),
		slog.String("key", res.LatestKey),
		slog.String("revision", res.RevisionKey),
	)
}
