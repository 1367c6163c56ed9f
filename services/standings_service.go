package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/scoring"
)

type StandingsView struct {
	LeagueID    int                   `json:"league_id"`
	Standings   []models.TeamStanding `json:"standings"`
	Anomalies   []scoring.Anomaly     `json:"anomalies,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
}

type PowerScoreView struct {
	LeagueID   int     `json:"league_id"`
	PlayerID   int     `json:"player_id"`
	WeekNumber int     `json:"week_number"`
	PowerScore float64 `json:"power_score"`
}

type StandingsService interface {
	GetStandings(ctx context.Context, leagueID int) (*StandingsView, error)
	GetPowerScore(ctx context.Context, leagueID, playerID, weekNumber int) (*PowerScoreView, error)
	GetSeeding(ctx context.Context, leagueID, weekNumber int) ([]models.PlayerSeed, error)
}

type powerCacheEntry struct {
	fingerprint uint64
	index       *scoring.PowerIndex
}

type standingsService struct {
	loader *SnapshotLoader
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cache map[int]powerCacheEntry
	build singleflight.Group
}

func NewStandingsService(loader *SnapshotLoader, logger *slog.Logger) StandingsService {
	return &standingsService{
		loader: loader,
		logger: logger,
		now:    time.Now,
		cache:  make(map[int]powerCacheEntry),
	}
}

func (s *standingsService) GetStandings(ctx context.Context, leagueID int) (*StandingsView, error) {
	snap, err := s.loader.Load(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return s.standingsOf(ctx, snap), nil
}

func (s *standingsService) standingsOf(ctx context.Context, snap *LeagueSnapshot) *StandingsView {
	res := scoring.Standings(snap.League, snap.Teams, snap.Weeks)
	for _, a := range res.Anomalies {
		s.logger.WarnContext(ctx, "Excluded malformed result record",
			slog.Int("league_id", snap.League.ID),
			slog.String("kind", string(a.Kind)),
			slog.Int("week_number", a.WeekNumber),
			slog.Int("week_matchup_id", a.WeekMatchupID),
			slog.Int("player_matchup_id", a.PlayerMatchupID),
			slog.String("detail", a.Detail),
		)
	}
	return &StandingsView{
		LeagueID:    snap.League.ID,
		Standings:   res.Rows,
		Anomalies:   res.Anomalies,
		GeneratedAt: s.now().UTC(),
	}
}

func (s *standingsService) GetPowerScore(ctx context.Context, leagueID, playerID, weekNumber int) (*PowerScoreView, error) {
	if weekNumber < 1 {
		return nil, ErrInvalidWeekNumber
	}
	snap, err := s.loader.Load(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if _, ok := leagueMembers(snap.Teams)[playerID]; !ok {
		return nil, ErrUserNotInLeague
	}

	idx, err := s.powerIndex(snap)
	if err != nil {
		return nil, err
	}
	return &PowerScoreView{
		LeagueID:   leagueID,
		PlayerID:   playerID,
		WeekNumber: weekNumber,
		PowerScore: idx.Score(playerID, weekNumber),
	}, nil
}

func (s *standingsService) GetSeeding(ctx context.Context, leagueID, weekNumber int) ([]models.PlayerSeed, error) {
	if weekNumber < 1 {
		return nil, ErrInvalidWeekNumber
	}
	snap, err := s.loader.Load(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	idx, err := s.powerIndex(snap)
	if err != nil {
		return nil, err
	}

	players := make([]models.PlayerSeed, 0)
	for _, t := range snap.Teams {
		for _, m := range t.Members {
			players = append(players, models.PlayerSeed{PlayerID: m.UserID, Username: m.Username, TeamID: t.ID})
		}
	}
	return scoring.Seeding(idx, weekNumber, players), nil
}

// powerIndex returns the cached index for the league, rebuilding it only
// when the completed-week ledger changed since the last build.
func (s *standingsService) powerIndex(snap *LeagueSnapshot) (*scoring.PowerIndex, error) {
	leagueID := snap.League.ID
	fp := scoring.Fingerprint(snap.Weeks)

	s.mu.RLock()
	entry, ok := s.cache[leagueID]
	s.mu.RUnlock()
	if ok && entry.fingerprint == fp {
		return entry.index, nil
	}

	v, err, _ := s.build.Do(fmt.Sprintf("%d:%x", leagueID, fp), func() (interface{}, error) {
		idx := scoring.NewPowerIndex(snap.Weeks)
		s.mu.Lock()
		s.cache[leagueID] = powerCacheEntry{fingerprint: fp, index: idx}
		s.mu.Unlock()
		s.logger.Debug("Power index rebuilt",
			slog.Int("league_id", leagueID),
			slog.Int("completed_weeks", idx.Weeks()),
		)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*scoring.PowerIndex), nil
}
