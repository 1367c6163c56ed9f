package handlers

import (
	"net/http"

	"github.com/Dosada05/team-league/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(ls services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: ls}
}

// CreateLeague godoc
// @Summary Создать лигу
// @Tags leagues
// @Accept json
// @Produce json
// @Param body body services.CreateLeagueInput true "Параметры лиги"
// @Success 201 {object} map[string]interface{} "Лига создана"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 409 {object} map[string]string "Имя лиги занято"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /leagues [post]
func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListLeagues godoc
// @Summary Список лиг
// @Tags leagues
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /leagues [get]
func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagueService.ListLeagues(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagues": leagues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLeague godoc
// @Summary Лига с командами и неделями
// @Tags leagues
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /leagues/{leagueID} [get]
func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTeam godoc
// @Summary Добавить команду в лигу
// @Tags teams
// @Description Участники создаются по имени, если их ещё нет. Без явного капитана капитаном становится первый участник.
// @Accept json
// @Produce json
// @Param leagueID path int true "League ID"
// @Param body body services.CreateTeamInput true "Команда и состав"
// @Success 201 {object} map[string]interface{} "Команда создана"
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Failure 409 {object} map[string]string "Имя занято или игрок уже в команде"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /leagues/{leagueID}/teams [post]
func (h *LeagueHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.leagueService.CreateTeam(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams godoc
// @Summary Команды лиги
// @Tags teams
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /leagues/{leagueID}/teams [get]
func (h *LeagueHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.leagueService.ListTeams(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
