// Package scoring folds the game ledger into match outcomes, team standings
// and player power scores. Every function is pure over the snapshot it is
// given and safe for concurrent use.
package scoring

import (
	"fmt"

	"github.com/Dosada05/team-league/models"
)

// WinsNeeded is the number of game wins that decides a best-of-N matchup.
func WinsNeeded(bestOfN int) int {
	return (bestOfN + 1) / 2
}

// validBestOf reports whether a week's best-of value can decide matchups.
func validBestOf(bestOfN int) bool {
	return bestOfN >= 1 && bestOfN%2 == 1
}

// tally counts game wins per side. Games whose winner is neither player and
// repeated game numbers are skipped and returned as anomalies; the first
// report of a game number wins.
func tally(pm models.PlayerMatchupInfo) (p1Wins, p2Wins int, bad []Anomaly) {
	seen := make(map[int]struct{}, len(pm.Games))
	for _, g := range pm.Games {
		if _, dup := seen[g.GameNumber]; dup {
			bad = append(bad, Anomaly{
				Kind:            AnomalyDuplicateGame,
				PlayerMatchupID: pm.ID,
				GameNumber:      g.GameNumber,
				Detail:          fmt.Sprintf("game %d reported more than once", g.GameNumber),
			})
			continue
		}
		switch g.WinnerID {
		case pm.Player1ID:
			p1Wins++
		case pm.Player2ID:
			p2Wins++
		default:
			bad = append(bad, Anomaly{
				Kind:            AnomalyInvalidWinner,
				PlayerMatchupID: pm.ID,
				GameNumber:      g.GameNumber,
				Detail:          fmt.Sprintf("winner %d is not a player of the matchup", g.WinnerID),
			})
			continue
		}
		seen[g.GameNumber] = struct{}{}
	}
	return p1Wins, p2Wins, bad
}

// Outcome returns the decided winner of a player matchup under the week's
// best-of-N threshold. A matchup short of the threshold is undecided, as is
// every matchup of a week whose best-of value is below one.
func Outcome(pm models.PlayerMatchupInfo, bestOfN int) (winnerID int, decided bool) {
	if bestOfN < 1 {
		return 0, false
	}
	p1Wins, p2Wins, _ := tally(pm)
	need := WinsNeeded(bestOfN)
	switch {
	case p1Wins >= need:
		return pm.Player1ID, true
	case p2Wins >= need:
		return pm.Player2ID, true
	}
	return 0, false
}

// MatchWins counts the matchups, over qualifying weeks, in which the player
// has won strictly more games than the opponent so far. It ignores the
// best-of-N threshold, so an unfinished 1-0 matchup already counts.
func MatchWins(playerID int, weeks []models.LeagueWeek) int {
	wins := 0
	for _, w := range weeks {
		if !w.Status.Qualifies() {
			continue
		}
		for _, wm := range w.Matchups {
			for _, pm := range wm.PlayerMatchups {
				if rawMajority(playerID, pm) {
					wins++
				}
			}
		}
	}
	return wins
}

func rawMajority(playerID int, pm models.PlayerMatchupInfo) bool {
	if !pm.Involves(playerID) {
		return false
	}
	p1Wins, p2Wins, _ := tally(pm)
	if playerID == pm.Player1ID {
		return p1Wins > p2Wins
	}
	return p2Wins > p1Wins
}

// UndecidedCount returns how many player matchups of the week still lack a
// decided winner.
func UndecidedCount(week models.LeagueWeek) int {
	n := 0
	for _, wm := range week.Matchups {
		for _, pm := range wm.PlayerMatchups {
			if _, ok := Outcome(pm, week.BestOfN); !ok {
				n++
			}
		}
	}
	return n
}
