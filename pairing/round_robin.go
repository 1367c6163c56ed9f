package pairing

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/Dosada05/team-league/models"
)

// bye marks the empty slot added to an odd team count.
const bye = 0

type RoundRobinPairer struct{}

func NewRoundRobinPairer() Pairer {
	return &RoundRobinPairer{}
}

func (g *RoundRobinPairer) GetName() string {
	return "RoundRobin"
}

// PairTeams rotates teams with the circle method: the lowest team id stays
// fixed and the rest turn one seat per week, so every pair meets once per
// cycle of n-1 weeks. With an odd count one team sits out each week.
func (g *RoundRobinPairer) PairTeams(ctx context.Context, params PairTeamsParams) ([]models.WeekMatchup, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("RoundRobinPairer: %w (found %d)", ErrNotEnoughTeams, len(params.Teams))
	}

	ids := make([]int, 0, len(params.Teams)+1)
	for _, t := range params.Teams {
		ids = append(ids, t.ID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) < 2 {
		return nil, fmt.Errorf("RoundRobinPairer: %w (found %d distinct)", ErrNotEnoughTeams, len(ids))
	}
	if len(ids)%2 == 1 {
		ids = append(ids, bye)
	}

	n := len(ids)
	round := 0
	if params.Week.WeekNumber > 0 {
		round = (params.Week.WeekNumber - 1) % (n - 1)
	}

	// seats[0] is fixed, seats[1:] rotate right by round.
	seats := make([]int, n)
	seats[0] = ids[0]
	rest := ids[1:]
	for i := range rest {
		seats[1+(i+round)%(n-1)] = rest[i]
	}

	matchups := make([]models.WeekMatchup, 0, n/2)
	for i := 0; i < n/2; i++ {
		a, b := seats[i], seats[n-1-i]
		if a == bye || b == bye {
			continue
		}
		if b < a {
			a, b = b, a
		}
		matchups = append(matchups, models.WeekMatchup{
			WeekID:  params.Week.ID,
			Team1ID: a,
			Team2ID: b,
		})
	}

	slices.SortFunc(matchups, func(x, y models.WeekMatchup) int {
		return cmp.Compare(x.Team1ID, y.Team1ID)
	})
	return matchups, nil
}

// PairPlayers seats the two designated feature players against each other
// first and flags that matchup, then pairs the remaining members in roster
// order. Surplus members of the larger roster are left unpaired.
func (g *RoundRobinPairer) PairPlayers(ctx context.Context, params PairPlayersParams) ([]models.PlayerMatchupInfo, error) {
	m := params.Matchup
	if params.Team1.ID != m.Team1ID || params.Team2.ID != m.Team2ID {
		return nil, fmt.Errorf("RoundRobinPairer: %w (matchup %d)", ErrTeamMismatch, m.ID)
	}

	left := memberIDs(params.Team1)
	right := memberIDs(params.Team2)

	var out []models.PlayerMatchupInfo
	if params.Week.FormatType.UsesFeatureTiebreak() {
		f1, ok1 := params.Week.FeatureFor(m.Team1ID)
		f2, ok2 := params.Week.FeatureFor(m.Team2ID)
		if ok1 && ok2 && slices.Contains(left, f1) && slices.Contains(right, f2) {
			out = append(out, models.PlayerMatchupInfo{
				WeekMatchupID: m.ID,
				Player1ID:     f1,
				Player2ID:     f2,
				IsFeature:     true,
			})
			left = slices.DeleteFunc(left, func(id int) bool { return id == f1 })
			right = slices.DeleteFunc(right, func(id int) bool { return id == f2 })
		}
	}

	for i := 0; i < len(left) && i < len(right); i++ {
		out = append(out, models.PlayerMatchupInfo{
			WeekMatchupID: m.ID,
			Player1ID:     left[i],
			Player2ID:     right[i],
		})
	}
	return out, nil
}

func memberIDs(t models.Team) []int {
	ids := make([]int, len(t.Members))
	for i, mem := range t.Members {
		ids[i] = mem.UserID
	}
	return ids
}
