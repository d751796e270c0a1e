package server

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one websocket connection. The player id is assigned by the
// server at connect time and identifies the player for the lifetime of the
// connection.
type Client struct {
	playerID string
	conn     *websocket.Conn

	mu     sync.Mutex
	roomID string
	closed bool
	send   chan []byte
}

// Room returns the room this connection is attached to, if any.
func (c *Client) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// Enqueue queues an event for delivery to this client.
func (c *Client) Enqueue(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.enqueueRaw(payload)
}

func (c *Client) enqueueRaw(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		// Slow consumer; drop rather than block the room.
	}
}

// closeSend shuts the send queue; later enqueues become no-ops.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump reads client messages and dispatches them until the connection
// drops. It runs on its own goroutine, one per connection, which also
// serializes all of this client's actions.
func (c *Client) readPump(s *Server) {
	defer func() {
		s.hub.Unregister(c)
		c.conn.Close()
		s.logger.Info("player disconnected", zap.String("player_id", c.playerID))
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.Enqueue(errorEvent(EventError, "malformed message"))
			continue
		}

		if reply := s.dispatch(c, msg); reply != nil {
			c.Enqueue(reply)
		}
	}
}

// writePump drains the send queue onto the wire.
func (c *Client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
