package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordhunt/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	registry *app.Registry
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *app.Registry, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins; origin policy belongs to the deployment
				return true
			},
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// ServeHTTP upgrades the connection and mints a fresh connection handle.
// Identity is bound to the handle later, by create_room or join_room.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	handle := uuid.New().String()
	client := NewClient(conn, h.registry, handle, h.logger)

	h.logger.Info().Str("handle", handle).Msg("websocket connected")

	client.Run()
}
