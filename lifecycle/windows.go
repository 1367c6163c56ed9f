package lifecycle

import "github.com/Dosada05/team-league/models"

// Окна, в которых неделя принимает ввод от игроков и капитанов.

// AcceptsDeckSelection reports whether players may register decks.
func AcceptsDeckSelection(s models.WeekStatus) bool {
	return s == models.WeekStatusCuration || s == models.WeekStatusDeckSelection
}

// AcceptsFeatures reports whether captains may still change the feature
// player. Designations freeze once player matchups exist.
func AcceptsFeatures(s models.WeekStatus) bool {
	switch s {
	case models.WeekStatusSetup,
		models.WeekStatusCuration,
		models.WeekStatusDeckSelection,
		models.WeekStatusTeamPaired,
		models.WeekStatusThief:
		return true
	}
	return false
}

func AcceptsGames(s models.WeekStatus) bool {
	return s == models.WeekStatusPairing || s == models.WeekStatusPublished
}

func AcceptsStrikes(s models.WeekStatus) bool {
	switch s {
	case models.WeekStatusPairing, models.WeekStatusPublished, models.WeekStatusCompleted:
		return true
	}
	return false
}
