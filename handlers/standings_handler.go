package handlers

import (
	"net/http"

	"github.com/Dosada05/team-league/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings godoc
// @Summary Турнирная таблица лиги
// @Tags standings
// @Description Учитываются только опубликованные и завершённые недели. Исключённые записи возвращаются в anomalies.
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} services.StandingsView
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /leagues/{leagueID}/standings [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.standingsService.GetStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPowerScore godoc
// @Summary Power score игрока перед неделей
// @Tags standings
// @Produce json
// @Param leagueID path int true "League ID"
// @Param playerID path int true "Player ID"
// @Param week query int true "Week number"
// @Success 200 {object} services.PowerScoreView
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Failure 422 {object} map[string]string "Игрок не в лиге"
// @Router /leagues/{leagueID}/power-scores/{playerID} [get]
func (h *StandingsHandler) GetPowerScore(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	week, err := getWeekQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.standingsService.GetPowerScore(r.Context(), leagueID, playerID, week)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSeeding godoc
// @Summary Посев игроков по power score
// @Tags standings
// @Produce json
// @Param leagueID path int true "League ID"
// @Param week query int true "Week number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /leagues/{leagueID}/seeding [get]
func (h *StandingsHandler) GetSeeding(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	week, err := getWeekQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seeds, err := h.standingsService.GetSeeding(r.Context(), leagueID, week)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"week_number": week, "players": seeds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
