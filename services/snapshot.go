package services

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/team-league/models"
	"github.com/Dosada05/team-league/repositories"
)

// LeagueSnapshot is a consistent-enough read of one league: the league row,
// its teams with rosters and every week with matchups, games, features and
// deck selections populated. Snapshots returned by Load are shared between
// concurrent callers and must be treated as read-only.
type LeagueSnapshot struct {
	League models.League
	Teams  []models.Team
	Weeks  []models.LeagueWeek
}

// Week returns the week with the given id.
func (s *LeagueSnapshot) Week(id int) (models.LeagueWeek, bool) {
	for _, w := range s.Weeks {
		if w.ID == id {
			return w, true
		}
	}
	return models.LeagueWeek{}, false
}

type SnapshotLoader struct {
	leagueRepo    repositories.LeagueRepository
	teamRepo      repositories.TeamRepository
	weekRepo      repositories.WeekRepository
	matchupRepo   repositories.MatchupRepository
	selectionRepo repositories.SelectionRepository

	group singleflight.Group
}

func NewSnapshotLoader(
	leagueRepo repositories.LeagueRepository,
	teamRepo repositories.TeamRepository,
	weekRepo repositories.WeekRepository,
	matchupRepo repositories.MatchupRepository,
	selectionRepo repositories.SelectionRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		weekRepo:      weekRepo,
		matchupRepo:   matchupRepo,
		selectionRepo: selectionRepo,
	}
}

// Load returns the league snapshot. Concurrent loads of the same league
// share one round of queries.
func (l *SnapshotLoader) Load(ctx context.Context, leagueID int) (*LeagueSnapshot, error) {
	// Запрос разделяют все ожидающие, поэтому отмена первого не должна его прерывать.
	v, err, _ := l.group.Do(strconv.Itoa(leagueID), func() (interface{}, error) {
		return l.load(context.WithoutCancel(ctx), leagueID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LeagueSnapshot), nil
}

// Invalidate makes the next Load of the league start a new round of
// queries instead of joining one that began before a write.
func (l *SnapshotLoader) Invalidate(leagueID int) {
	l.group.Forget(strconv.Itoa(leagueID))
}

func (l *SnapshotLoader) load(ctx context.Context, leagueID int) (*LeagueSnapshot, error) {
	snap := &LeagueSnapshot{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		league, err := l.leagueRepo.GetByID(gCtx, nil, leagueID)
		if err != nil {
			return handleRepositoryError(err, "loading league %d", leagueID)
		}
		snap.League = *league
		return nil
	})

	g.Go(func() error {
		teams, err := l.teamRepo.ListByLeague(gCtx, nil, leagueID)
		if err != nil {
			return handleRepositoryError(err, "loading teams of league %d", leagueID)
		}
		snap.Teams = teams
		return nil
	})

	g.Go(func() error {
		weeks, err := l.weekRepo.ListByLeague(gCtx, nil, leagueID)
		if err != nil {
			return handleRepositoryError(err, "loading weeks of league %d", leagueID)
		}
		if err := l.populate(gCtx, weeks); err != nil {
			return err
		}
		snap.Weeks = weeks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadWeek returns a single week with its nested records populated.
func (l *SnapshotLoader) LoadWeek(ctx context.Context, weekID int) (models.LeagueWeek, error) {
	week, err := l.weekRepo.GetByID(ctx, nil, weekID)
	if err != nil {
		return models.LeagueWeek{}, handleRepositoryError(err, "loading week %d", weekID)
	}
	weeks := []models.LeagueWeek{*week}
	if err := l.populate(ctx, weeks); err != nil {
		return models.LeagueWeek{}, err
	}
	return weeks[0], nil
}

// populate fills matchups, feature designations and deck selections for the
// given weeks in place.
func (l *SnapshotLoader) populate(ctx context.Context, weeks []models.LeagueWeek) error {
	if len(weeks) == 0 {
		return nil
	}
	ids := make([]int, len(weeks))
	for i, w := range weeks {
		ids[i] = w.ID
	}

	var (
		matchups map[int][]models.WeekMatchup
		features map[int][]models.FeatureDesignation
		decks    map[int][]models.DeckSelection
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matchups, err = l.matchupRepo.ListByWeekIDs(gCtx, nil, ids)
		if err != nil {
			return fmt.Errorf("loading matchups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		features, err = l.selectionRepo.ListFeatures(gCtx, nil, ids)
		if err != nil {
			return fmt.Errorf("loading feature designations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		decks, err = l.selectionRepo.ListDeckSelections(gCtx, nil, ids)
		if err != nil {
			return fmt.Errorf("loading deck selections: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range weeks {
		id := weeks[i].ID
		weeks[i].Matchups = orEmpty(matchups[id])
		weeks[i].FeatureDesignations = orEmpty(features[id])
		weeks[i].DeckSelections = orEmpty(decks[id])
	}
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
