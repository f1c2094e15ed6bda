package notification

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps one live connection per user. A newer connection replaces
// and closes the older one.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

func (h *Hub) register(userID int64, conn *websocket.Conn) *client {
	c := &client{conn: conn}

	h.mutex.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.mutex.Unlock()

	if old != nil {
		_ = old.conn.Close()
	}
	return c
}

// unregister drops c if it is still the user's current connection.
func (h *Hub) unregister(userID int64, c *client) {
	h.mutex.Lock()
	if h.clients[userID] == c {
		delete(h.clients, userID)
	}
	h.mutex.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) Push(userID int64, v any) bool {
	h.mutex.RLock()
	c, ok := h.clients[userID]
	h.mutex.RUnlock()
	if !ok {
		return false
	}

	if err := c.writeJSON(v); err != nil {
		h.unregister(userID, c)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, userID)
	}
}
