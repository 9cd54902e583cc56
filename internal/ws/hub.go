package ws

import (
	"log/slog"
	"sync"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
)

// Hub fans outbound events to the participants of a single session. The
// audience of an event is either every participant or one specific
// connection (the host for join/leave notices, the joiner for its
// confirmation).
type Hub struct {
	code   model.SessionCode
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnID]*Client
}

// NewHub creates a hub for a session
func NewHub(code model.SessionCode, logger *slog.Logger) *Hub {
	return &Hub{
		code:    code,
		logger:  logger.With(slog.String("session", string(code))),
		clients: make(map[model.ConnID]*Client),
	}
}

// Add registers a participant's connection with the hub
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("participant registered",
		slog.String("conn", string(client.ID)),
		slog.Int("total_participants", count),
	)
}

// Remove drops a participant's connection from the hub without closing it
func (h *Hub) Remove(id model.ConnID) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("participant unregistered",
			slog.String("conn", string(id)),
			slog.Duration("connection_duration", client.ConnectedFor()),
			slog.Int("total_participants", count),
		)
	}
}

// Broadcast sends an event to all session participants, host included
func (h *Hub) Broadcast(eventType model.EventType, payload any) {
	message, err := Encode(eventType, payload)
	if err != nil {
		h.logger.Error("event encode failed",
			slog.String("event", string(eventType)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Enqueue(message)
	}
}

// SendTo sends an event to a single participant
func (h *Hub) SendTo(id model.ConnID, eventType model.EventType, payload any) {
	message, err := Encode(eventType, payload)
	if err != nil {
		h.logger.Error("event encode failed",
			slog.String("event", string(eventType)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if ok {
		client.Enqueue(message)
	}
}

// ParticipantCount returns the number of registered connections
func (h *Hub) ParticipantCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager tracks the hub for every live session
type HubManager struct {
	logger *slog.Logger

	mu   sync.RWMutex
	hubs map[model.SessionCode]*Hub
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		logger: logger.With(slog.String("component", "ws")),
		hubs:   make(map[model.SessionCode]*Hub),
	}
}

// GetOrCreate returns the hub for a session, creating one if needed
func (m *HubManager) GetOrCreate(code model.SessionCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[code]; ok {
		return hub
	}
	hub := NewHub(code, m.logger)
	m.hubs[code] = hub
	return hub
}

// Get returns the hub for a session, or nil if none exists
func (m *HubManager) Get(code model.SessionCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[code]
}

// Remove forgets a session's hub. Connections stay open; they simply no
// longer belong to a broadcast group.
func (m *HubManager) Remove(code model.SessionCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hubs, code)
}
