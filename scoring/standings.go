package scoring

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Dosada05/team-league/models"
)

// StandingsResult is the league table plus every record that was excluded
// while building it.
type StandingsResult struct {
	Rows      []models.TeamStanding `json:"rows"`
	Anomalies []Anomaly             `json:"anomalies,omitempty"`
}

// QualifyingWeeks returns the published and completed weeks ordered by
// week number.
func QualifyingWeeks(weeks []models.LeagueWeek) []models.LeagueWeek {
	out := make([]models.LeagueWeek, 0, len(weeks))
	for _, w := range weeks {
		if w.Status.Qualifies() {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b models.LeagueWeek) int {
		return cmp.Compare(a.WeekNumber, b.WeekNumber)
	})
	return out
}

func bonusPoints(league models.League) int {
	if league.WeekBonusPoints < 0 {
		return models.DefaultWeekBonusPoints
	}
	return league.WeekBonusPoints
}

// Standings folds every qualifying week into per-team week points and
// totals. Each team matchup awards its side's decided player matchup wins,
// plus the league bonus to the side holding a strict majority, or half the
// matchups (rounded down) when that side also won the feature matchup.
// Rows are ordered by total descending, then team id.
func Standings(league models.League, teams []models.Team, weeks []models.LeagueWeek) StandingsResult {
	bonus := bonusPoints(league)

	byID := make(map[int]*models.TeamStanding, len(teams))
	members := make(map[int]map[int]struct{}, len(teams))
	rows := make([]*models.TeamStanding, 0, len(teams))
	for _, t := range teams {
		if _, dup := byID[t.ID]; dup {
			continue
		}
		row := &models.TeamStanding{TeamID: t.ID, TeamName: t.Name, WeekPoints: map[int]int{}}
		byID[t.ID] = row
		members[t.ID] = t.MemberIDs()
		rows = append(rows, row)
	}

	var anomalies []Anomaly
	for _, w := range QualifyingWeeks(weeks) {
		if !validBestOf(w.BestOfN) {
			anomalies = append(anomalies, Anomaly{
				Kind:       AnomalyInvalidBestOf,
				WeekNumber: w.WeekNumber,
				Detail:     fmt.Sprintf("best_of_n %d is not an odd number of at least 1", w.BestOfN),
			})
		}

		playing := make(map[int]struct{}, 2*len(w.Matchups))
		for _, wm := range w.Matchups {
			res, bad := scoreTeamMatchup(w, wm, members, playing)
			for i := range bad {
				bad[i].WeekNumber = w.WeekNumber
				bad[i].WeekMatchupID = wm.ID
			}
			anomalies = append(anomalies, bad...)
			if !res.counted {
				continue
			}
			byID[wm.Team1ID].WeekPoints[w.WeekNumber] += res.team1Wins + bonus*res.bonusTo(1)
			byID[wm.Team2ID].WeekPoints[w.WeekNumber] += res.team2Wins + bonus*res.bonusTo(2)
		}
	}

	out := make([]models.TeamStanding, 0, len(rows))
	for _, row := range rows {
		for _, pts := range row.WeekPoints {
			row.Total += pts
		}
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b models.TeamStanding) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	return StandingsResult{Rows: out, Anomalies: anomalies}
}

type matchupResult struct {
	counted   bool
	team1Wins int
	team2Wins int
	bonusSide int
}

func (r matchupResult) bonusTo(side int) int {
	if r.bonusSide == side {
		return 1
	}
	return 0
}

// scoreTeamMatchup adjudicates one team-vs-team matchup. playing tracks the
// teams already scored in the week.
func scoreTeamMatchup(
	w models.LeagueWeek,
	wm models.WeekMatchup,
	members map[int]map[int]struct{},
	playing map[int]struct{},
) (matchupResult, []Anomaly) {
	var bad []Anomaly

	t1, ok1 := members[wm.Team1ID]
	t2, ok2 := members[wm.Team2ID]
	if !ok1 || !ok2 {
		missing := wm.Team1ID
		if ok1 {
			missing = wm.Team2ID
		}
		return matchupResult{}, append(bad, Anomaly{
			Kind:   AnomalyUnknownTeam,
			TeamID: missing,
			Detail: fmt.Sprintf("team %d is not part of the league", missing),
		})
	}
	if wm.Team1ID == wm.Team2ID || overlaps(t1, t2) {
		return matchupResult{}, append(bad, Anomaly{
			Kind:   AnomalyOverlappingTeams,
			Detail: fmt.Sprintf("teams %d and %d share members", wm.Team1ID, wm.Team2ID),
		})
	}
	for _, id := range []int{wm.Team1ID, wm.Team2ID} {
		if _, dup := playing[id]; dup {
			return matchupResult{}, append(bad, Anomaly{
				Kind:   AnomalyDuplicateTeamInWeek,
				TeamID: id,
				Detail: fmt.Sprintf("team %d already has a matchup this week", id),
			})
		}
	}
	playing[wm.Team1ID] = struct{}{}
	playing[wm.Team2ID] = struct{}{}

	res := matchupResult{counted: true}
	total := 0
	featureSeen := false
	featureSide := 0

	for _, pm := range wm.PlayerMatchups {
		_, _, gameBad := tally(pm)
		bad = append(bad, gameBad...)

		isFeature := false
		if pm.IsFeature {
			if featureSeen {
				bad = append(bad, Anomaly{
					Kind:            AnomalyMultipleFeatures,
					PlayerMatchupID: pm.ID,
					Detail:          "only the first feature matchup is used as tiebreaker",
				})
			} else {
				featureSeen = true
				isFeature = true
			}
		}

		// Every player matchup counts toward the majority, decided or not.
		total++
		winner, decided := Outcome(pm, w.BestOfN)
		if !decided {
			continue
		}

		side := 0
		if _, ok := t1[winner]; ok {
			side = 1
		} else if _, ok := t2[winner]; ok {
			side = 2
		}
		if side == 0 {
			bad = append(bad, Anomaly{
				Kind:            AnomalyWinnerNotOnTeam,
				PlayerMatchupID: pm.ID,
				Detail:          fmt.Sprintf("winner %d is on neither team", winner),
			})
			continue
		}

		if side == 1 {
			res.team1Wins++
		} else {
			res.team2Wins++
		}
		if isFeature {
			featureSide = side
		}
	}

	switch {
	case 2*res.team1Wins > total:
		res.bonusSide = 1
	case 2*res.team2Wins > total:
		res.bonusSide = 2
	case res.team1Wins == total/2 && featureSide == 1:
		res.bonusSide = 1
	case res.team2Wins == total/2 && featureSide == 2:
		res.bonusSide = 2
	}
	return res, bad
}

func overlaps(a, b map[int]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for id := range a {
		if _, ok := b[id]; ok {
			return true
		}
	}
	return false
}
