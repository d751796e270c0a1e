package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks connected clients and routes outbound events. Sends are
// best-effort: a client whose queue is full is dropped rather than allowed
// to stall the room.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	byPlayer map[string]*Client
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		byPlayer: make(map[string]*Client),
		logger:   logger,
	}
}

// Register adds a connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
	h.byPlayer[c.playerID] = c

	h.logger.Debug("client registered", zap.String("player_id", c.playerID))
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.byPlayer, c.playerID)
	c.closeSend()

	h.logger.Debug("client unregistered", zap.String("player_id", c.playerID))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToRoom sends an event to every client attached to the room.
func (h *Hub) BroadcastToRoom(roomID string, event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.Room() == roomID {
			c.enqueueRaw(payload)
		}
	}
}

// SendToPlayer sends an event to one player's client, if connected. The
// lock is held across the enqueue so a concurrent Unregister cannot close
// the queue mid-send.
func (h *Hub) SendToPlayer(playerID string, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.byPlayer[playerID]; ok {
		c.Enqueue(event)
	}
}
