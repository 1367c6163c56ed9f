package scoring

import (
	"cmp"
	"slices"

	"github.com/Dosada05/team-league/models"
)

// opponentWeight scales the summed wins of a player's past opponents.
const opponentWeight = 0.01

// priorCompleted returns the completed weeks numbered before weekNumber.
// Published weeks still in play are not part of a player's history.
func priorCompleted(weekNumber int, weeks []models.LeagueWeek) []models.LeagueWeek {
	var prior []models.LeagueWeek
	for _, w := range weeks {
		if w.Status == models.WeekStatusCompleted && w.WeekNumber < weekNumber {
			prior = append(prior, w)
		}
	}
	return prior
}

// PowerScore is the player's own match wins over completed weeks before
// weekNumber plus 0.01 per match win of every opponent faced in those weeks.
// An opponent met twice is counted twice. It is 0 with no completed history.
func PowerScore(playerID, weekNumber int, weeks []models.LeagueWeek) float64 {
	prior := priorCompleted(weekNumber, weeks)
	if len(prior) == 0 {
		return 0
	}

	base := MatchWins(playerID, prior)
	oppWins := 0
	for _, w := range prior {
		for _, wm := range w.Matchups {
			for _, pm := range wm.PlayerMatchups {
				opp, ok := pm.Opponent(playerID)
				if !ok {
					continue
				}
				oppWins += MatchWins(opp, prior)
			}
		}
	}
	return combine(base, oppWins)
}

func combine(base, oppWins int) float64 {
	return float64(base) + opponentWeight*float64(oppWins)
}

// PowerLookup answers power-score queries for one snapshot.
type PowerLookup interface {
	Score(playerID, weekNumber int) float64
}

// Seeding fills in every player's power score for weekNumber and orders
// the list by score descending, then player id.
func Seeding(lookup PowerLookup, weekNumber int, players []models.PlayerSeed) []models.PlayerSeed {
	out := make([]models.PlayerSeed, len(players))
	for i, p := range players {
		p.WeekNumber = weekNumber
		p.PowerScore = lookup.Score(p.PlayerID, weekNumber)
		out[i] = p
	}
	slices.SortFunc(out, func(a, b models.PlayerSeed) int {
		if c := cmp.Compare(b.PowerScore, a.PowerScore); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

// WeeksLookup adapts a raw week list to PowerLookup without an index.
type WeeksLookup []models.LeagueWeek

func (w WeeksLookup) Score(playerID, weekNumber int) float64 {
	return PowerScore(playerID, weekNumber, w)
}
