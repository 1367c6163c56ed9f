package scoring

import (
	"cmp"
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/Dosada05/team-league/models"
)

// PowerIndex holds power scores for every prefix of the completed-week
// history. levels[k] covers the completed weeks carrying the k smallest
// week numbers. It is immutable once built.
type PowerIndex struct {
	numbers []int
	levels  []powerLevel
}

type powerLevel struct {
	wins    map[int]int
	oppWins map[int]int
}

// NewPowerIndex builds the index from a snapshot. Scores it returns are
// identical to PowerScore over the same weeks.
func NewPowerIndex(weeks []models.LeagueWeek) *PowerIndex {
	completed := make([]models.LeagueWeek, 0, len(weeks))
	for _, w := range weeks {
		if w.Status == models.WeekStatusCompleted {
			completed = append(completed, w)
		}
	}
	slices.SortStableFunc(completed, func(a, b models.LeagueWeek) int {
		return cmp.Compare(a.WeekNumber, b.WeekNumber)
	})

	idx := &PowerIndex{levels: []powerLevel{{}}}

	cum := map[int]int{}
	var pairs [][2]int
	for i := 0; i < len(completed); {
		n := completed[i].WeekNumber
		for ; i < len(completed) && completed[i].WeekNumber == n; i++ {
			for _, wm := range completed[i].Matchups {
				for _, pm := range wm.PlayerMatchups {
					p1Wins, p2Wins, _ := tally(pm)
					switch {
					case p1Wins > p2Wins:
						cum[pm.Player1ID]++
					case p2Wins > p1Wins:
						cum[pm.Player2ID]++
					}
					pairs = append(pairs, [2]int{pm.Player1ID, pm.Player2ID})
				}
			}
		}

		wins := make(map[int]int, len(cum))
		for p, c := range cum {
			wins[p] = c
		}
		oppWins := make(map[int]int)
		for _, pr := range pairs {
			oppWins[pr[0]] += wins[pr[1]]
			if pr[0] != pr[1] {
				oppWins[pr[1]] += wins[pr[0]]
			}
		}

		idx.numbers = append(idx.numbers, n)
		idx.levels = append(idx.levels, powerLevel{wins: wins, oppWins: oppWins})
	}
	return idx
}

// Score returns the player's power score ahead of weekNumber.
func (idx *PowerIndex) Score(playerID, weekNumber int) float64 {
	k, _ := slices.BinarySearch(idx.numbers, weekNumber)
	if k == 0 {
		return 0
	}
	lvl := idx.levels[k]
	return combine(lvl.wins[playerID], lvl.oppWins[playerID])
}

// Weeks returns how many distinct completed week numbers the index covers.
func (idx *PowerIndex) Weeks() int {
	return len(idx.numbers)
}

// Fingerprint hashes the part of a snapshot power scores depend on: the
// completed weeks and their game ledger. Equal fingerprints yield equal
// indexes.
func Fingerprint(weeks []models.LeagueWeek) uint64 {
	completed := make([]models.LeagueWeek, 0, len(weeks))
	for _, w := range weeks {
		if w.Status == models.WeekStatusCompleted {
			completed = append(completed, w)
		}
	}
	slices.SortFunc(completed, func(a, b models.LeagueWeek) int {
		if c := cmp.Compare(a.WeekNumber, b.WeekNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	d := xxhash.New()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	for _, w := range completed {
		put(w.ID)
		put(w.WeekNumber)
		for _, wm := range w.Matchups {
			for _, pm := range wm.PlayerMatchups {
				put(pm.ID)
				put(pm.Player1ID)
				put(pm.Player2ID)
				put(len(pm.Games))
				for _, g := range pm.Games {
					put(g.GameNumber)
					put(g.WinnerID)
				}
			}
		}
	}
	return d.Sum64()
}
