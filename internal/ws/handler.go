package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Handler upgrades HTTP requests to websocket connections and runs their
// read loops. Every accepted connection is assigned a fresh opaque identity.
type Handler struct {
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	cfg        Config
	logger     *slog.Logger
}

// NewHandler creates the websocket endpoint handler
func NewHandler(dispatcher *Dispatcher, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg:    cfg,
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP accepts one client connection and pumps its events until it
// drops. The implicit disconnect event fires on any read failure, covering
// closes, timeouts, and protocol errors alike.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(model.ConnID(uuid.NewString()), conn, h.cfg, h.logger)
	h.logger.Info("client connected", slog.String("conn", string(client.ID)))

	go client.WritePump()
	client.configureRead()

	for {
		message, err := client.ReadMessage()
		if err != nil {
			break
		}
		h.dispatcher.Dispatch(r.Context(), client, message)
	}

	// The request context dies with the connection; cleanup gets its own
	h.dispatcher.Disconnect(context.Background(), client)
	client.Close()
	h.logger.Info("client disconnected",
		slog.String("conn", string(client.ID)),
		slog.Duration("connection_duration", client.ConnectedFor()),
	)
}
