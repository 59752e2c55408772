package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

const writeWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer per connection
}

// Hub holds WebSocket connections and broadcasts notifications to all clients.
// Implements notify.Hub.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register adds a WebSocket connection to the hub and returns its client id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = &client{conn: conn}
	tool.DefaultLogger.Debugf("[NotifyWS] client %s connected (%d total)", id, len(h.clients))
	return id
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
	tool.DefaultLogger.Debugf("[NotifyWS] client %s disconnected (%d total)", id, len(h.clients))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Errorf("[NotifyWS] failed to encode notification: %v", err)
		return
	}

	h.mu.RLock()
	clients := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		clients[id] = c
	}
	h.mu.RUnlock()

	for id, c := range clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteMessage(websocket.TextMessage, payload)
		c.mu.Unlock()
		if err != nil {
			tool.DefaultLogger.Debugf("[NotifyWS] write to %s failed: %v", id, err)
		}
	}
}
