package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"relay/internal/models"
)

// Client wraps one live WebSocket connection. The ID is assigned at upgrade
// time and never reused for the lifetime of the process.
type Client struct {
	ID   string
	Conn *websocket.Conn
	mu   sync.Mutex
	hook func(models.Event)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.Event)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send delivers one event to this client. Write errors are ignored; a dead
// connection is reaped by its own read loop.
func (c *Client) Send(event models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(event)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(event)
}
