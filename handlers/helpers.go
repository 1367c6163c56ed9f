package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/team-league/lifecycle"
	"github.com/Dosada05/team-league/services"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576 // 1MB

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readOptionalJSON is readJSON for endpoints whose body may be omitted.
func readOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return readJSON(w, r, dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	writeEnvelope(w, r, status, jsonResponse{"error": message})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env jsonResponse) {
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "Error writing JSON response",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var precondition *lifecycle.PreconditionError
	var transition *lifecycle.TransitionError

	switch {
	// Ошибки жизненного цикла недели несут подробности для клиента
	case errors.As(err, &precondition):
		writeEnvelope(w, r, http.StatusUnprocessableEntity, jsonResponse{
			"error":            precondition.Error(),
			"action":           precondition.Action,
			"missing_players":  orEmptyStrings(precondition.MissingPlayers),
			"missing_teams":    orEmptyInts(precondition.MissingTeams),
			"retry_with_force": precondition.Overridable,
		})
	case errors.As(err, &transition):
		writeEnvelope(w, r, http.StatusConflict, jsonResponse{
			"error":         transition.Error(),
			"status":        transition.Status,
			"legal_actions": transition.Legal,
		})

	// Ресурс не найден
	case errors.Is(err, services.ErrLeagueNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrWeekNotFound),
		errors.Is(err, services.ErrPlayerMatchupNotFound):
		notFoundResponse(w, r, err)

	// Конфликты и закрытые окна ввода
	case errors.Is(err, services.ErrLeagueNameConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrPlayerAlreadyOnTeam),
		errors.Is(err, services.ErrWeekNumberConflict),
		errors.Is(err, services.ErrGameNumberConflict),
		errors.Is(err, services.ErrWeekStatusConflict),
		errors.Is(err, services.ErrWeekNotDeletable),
		errors.Is(err, services.ErrSelectionClosed),
		errors.Is(err, services.ErrFeaturesClosed),
		errors.Is(err, services.ErrReportingClosed),
		errors.Is(err, services.ErrStrikesClosed),
		errors.Is(err, services.ErrMatchupDecided):
		conflictResponse(w, r, err.Error())

	// Невалидные данные
	case errors.Is(err, services.ErrLeagueNameRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, lifecycle.ErrUnknownAction):
		badRequestResponse(w, r, err)
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidFormat),
		errors.Is(err, services.ErrInvalidBestOf),
		errors.Is(err, services.ErrInvalidWeekNumber),
		errors.Is(err, services.ErrTeamNotInLeague),
		errors.Is(err, services.ErrUserNotOnTeam),
		errors.Is(err, services.ErrUserNotInLeague),
		errors.Is(err, services.ErrTooManyDecks),
		errors.Is(err, services.ErrInvalidWinner),
		errors.Is(err, services.ErrInvalidGameNumber),
		errors.Is(err, services.ErrPlayerNotInMatchup):
		failedValidationResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", paramName, id)
	}
	return id, nil
}

// getWeekQuery reads the required ?week= parameter.
func getWeekQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return 0, errors.New("query parameter week is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid week format: %q", raw)
	}
	return n, nil
}
