package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/team-league/realtime"
	"github.com/Dosada05/team-league/services"
)

type WebSocketHandler struct {
	hub           *realtime.Hub
	leagueService services.LeagueService
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows
// any origin.
func NewWebSocketHandler(hub *realtime.Hub, ls services.LeagueService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:           hub,
		leagueService: ls,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs подписывает клиента на обновления лиги.
// Клиент подключается к /ws/leagues/{leagueID}
// @Summary Подписка на обновления лиги (WebSocket)
// @Tags realtime
// @Description Сообщения WEEK_UPDATED и STANDINGS_UPDATED для комнаты league_<id>.
// @Param leagueID path int true "League ID"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} map[string]string "Лига не найдена"
// @Router /ws/leagues/{leagueID} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.leagueService.GetLeague(r.Context(), leagueID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту.
		h.logger.Warn("Failed to upgrade websocket connection", slog.Int("league_id", leagueID), slog.Any("error", err))
		return
	}

	room := realtime.LeagueRoom(leagueID)
	client := realtime.NewClient(h.hub, conn, room)
	if !h.hub.Join(r.Context(), client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("Websocket client subscribed", slog.String("room", room))
}
