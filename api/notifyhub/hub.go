package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// WriteTimeout bounds one write to a kiosk page; slow pages are dropped.
const WriteTimeout = 2 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds kiosk page connections and broadcasts display events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Len returns the number of connected pages.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send writes one notification to a single registered connection.
func (h *Hub) Send(conn *websocket.Conn, notification *types.Notification) error {
	payload, err := sonic.Marshal(notification)
	if err != nil {
		return err
	}
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return c.write(payload)
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Errorf("[NotifyHub] Failed to encode %s: %v", notification.Type, err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			tool.DefaultLogger.Debugf("[NotifyHub] Dropping page: %v", err)
			_ = c.conn.Close()
		}
	}
}
