package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/team-league/lifecycle"
	"github.com/Dosada05/team-league/services"
)

type WeekHandler struct {
	weekService services.WeekService
}

func NewWeekHandler(ws services.WeekService) *WeekHandler {
	return &WeekHandler{weekService: ws}
}

type applyActionRequest struct {
	Force bool `json:"force"`
}

type designateFeatureRequest struct {
	UserID int `json:"user_id"`
}

type selectDecksRequest struct {
	DeckIDs []string `json:"deck_ids"`
}

type addStrikeRequest struct {
	StrikerID int    `json:"striker_id"`
	DeckID    string `json:"deck_id"`
}

// CreateWeek godoc
// @Summary Создать неделю
// @Tags weeks
// @Description Неделя создаётся в статусе setup. best_of_n по умолчанию 1.
// @Accept json
// @Produce json
// @Param leagueID path int true "League ID"
// @Param body body services.CreateWeekInput true "Номер, формат, best_of_n"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Failure 409 {object} map[string]string "Номер недели занят"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /leagues/{leagueID}/weeks [post]
func (h *WeekHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateWeekInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	week, err := h.weekService.CreateWeek(r.Context(), leagueID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"week": week}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListWeeks godoc
// @Summary Недели лиги
// @Tags weeks
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /leagues/{leagueID}/weeks [get]
func (h *WeekHandler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	weeks, err := h.weekService.ListWeeks(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"weeks": weeks}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetWeek godoc
// @Summary Неделя с доступными действиями
// @Tags weeks
// @Produce json
// @Param weekID path int true "Week ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Неделя не найдена"
// @Router /weeks/{weekID} [get]
func (h *WeekHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	week, err := h.weekService.GetWeek(r.Context(), weekID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"week": week}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteWeek godoc
// @Summary Удалить неделю
// @Tags weeks
// @Param weekID path int true "Week ID"
// @Success 204 "Неделя удалена"
// @Failure 404 {object} map[string]string "Неделя не найдена"
// @Failure 409 {object} map[string]string "Неделя уже не в setup"
// @Router /weeks/{weekID} [delete]
func (h *WeekHandler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.weekService.DeleteWeek(r.Context(), weekID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyAction godoc
// @Summary Выполнить переход недели
// @Tags weeks
// @Description Действия: open_selection, generate_team_pairings, advance_to_thief, end_thief, generate_player_matchups, publish, check_completion.
// @Description Незаполненные колоды можно пропустить повтором с force=true; отсутствующих feature-игроков пропустить нельзя.
// @Accept json
// @Produce json
// @Param weekID path int true "Week ID"
// @Param action path string true "Action name"
// @Param body body applyActionRequest false "force"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неизвестное действие"
// @Failure 404 {object} map[string]string "Неделя не найдена"
// @Failure 409 {object} map[string]interface{} "Действие недоступно в текущей фазе"
// @Failure 422 {object} map[string]interface{} "Не выполнены предусловия"
// @Router /weeks/{weekID}/actions/{action} [post]
func (h *WeekHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	action, err := lifecycle.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input applyActionRequest
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	week, err := h.weekService.ApplyAction(r.Context(), weekID, action, input.Force)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"week": week}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DesignateFeature godoc
// @Summary Назначить feature-игрока команды
// @Tags weeks
// @Accept json
// @Produce json
// @Param weekID path int true "Week ID"
// @Param teamID path int true "Team ID"
// @Param body body designateFeatureRequest true "Игрок"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Неделя или команда не найдена"
// @Failure 409 {object} map[string]string "Назначение закрыто"
// @Failure 422 {object} map[string]string "Игрок не в команде"
// @Router /weeks/{weekID}/features/{teamID} [put]
func (h *WeekHandler) DesignateFeature(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input designateFeatureRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	week, err := h.weekService.DesignateFeature(r.Context(), weekID, teamID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"week": week}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SelectDecks godoc
// @Summary Зарегистрировать колоды игрока на неделю
// @Tags weeks
// @Accept json
// @Produce json
// @Param weekID path int true "Week ID"
// @Param userID path int true "User ID"
// @Param body body selectDecksRequest true "Колоды"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Неделя не найдена"
// @Failure 409 {object} map[string]string "Выбор колод закрыт"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /weeks/{weekID}/decks/{userID} [put]
func (h *WeekHandler) SelectDecks(w http.ResponseWriter, r *http.Request) {
	weekID, err := getIDFromURL(r, "weekID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input selectDecksRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	selection, err := h.weekService.SelectDecks(r.Context(), weekID, userID, input.DeckIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deck_selection": selection}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportGame godoc
// @Summary Записать результат игры
// @Tags games
// @Description После записи в опубликованной неделе автоматически проверяется завершение недели.
// @Accept json
// @Produce json
// @Param playerMatchupID path int true "Player matchup ID"
// @Param body body services.ReportGameInput true "Игра"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Номер игры занят / матч решён / приём закрыт"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /player-matchups/{playerMatchupID}/games [post]
func (h *WeekHandler) ReportGame(w http.ResponseWriter, r *http.Request) {
	pmID, err := getIDFromURL(r, "playerMatchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReportGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.weekService.ReportGame(r.Context(), pmID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddStrike godoc
// @Summary Вычеркнуть колоду соперника
// @Tags games
// @Accept json
// @Produce json
// @Param playerMatchupID path int true "Player matchup ID"
// @Param body body addStrikeRequest true "Strike"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Strikes закрыты"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /player-matchups/{playerMatchupID}/strikes [post]
func (h *WeekHandler) AddStrike(w http.ResponseWriter, r *http.Request) {
	pmID, err := getIDFromURL(r, "playerMatchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addStrikeRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	strike, err := h.weekService.AddStrike(r.Context(), pmID, input.StrikerID, input.DeckID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"strike": strike}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
