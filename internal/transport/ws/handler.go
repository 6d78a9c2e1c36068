package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"unilang/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub             *app.SessionHub
	upgrader        websocket.Upgrader
	leaderboardSize int
	logger          *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.SessionHub, leaderboardSize int, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The API is open (no auth), so the socket is too
				return true
			},
		},
		leaderboardSize: leaderboardSize,
		logger:          logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	session, err := h.hub.GetSession(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, session, uuid.New().String(), h.leaderboardSize, h.logger)
	session.RegisterListener(client)

	h.logger.Info("websocket connected",
		"sessionID", sessionID,
		"clientID", client.GetClientID(),
	)

	client.sendConnected()
	client.Run()
}
