package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"streamsched/internal/logging"
	"streamsched/internal/view"
)

const (
	pingInterval = 20 * time.Second
	writeWait    = 10 * time.Second
	readWait     = 60 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(messageType, data)
}

// writeLocked requires c.mu.
func (c *client) writeLocked(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans panel updates out to connected overlay websockets.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  *slog.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logging.NewComponentLogger(logger, "overlay-hub"),
	}
}

// Clients returns the number of connected sockets.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishPanel pushes a DISPLAY frame. It matches view.BoardObserver.OnPanel.
func (h *Hub) PublishPanel(panel view.Panel) {
	h.Broadcast(PushMessage{Type: PushDisplay, Data: panel})
}

// Broadcast sends msg to every client, dropping those that fail.
func (h *Hub) Broadcast(msg PushMessage) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode push message", logging.Error(err))
		return 0
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range targets {
		if err := c.write(websocket.TextMessage, data); err != nil {
			h.logger.Debug("dropping overlay client", logging.Error(err))
			h.remove(c)
			continue
		}
		sent++
	}
	h.logger.Debug("push broadcast", logging.String("type", msg.Type), logging.Int("clients", sent))
	return sent
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		_ = c.conn.Close()
	}
}

// ServeWS upgrades the request and keeps the socket alive until the peer
// goes away. The client is registered before initial is called and its
// frames are written while broadcasts to the client are held back, so a
// push is never overtaken by an older initial panel.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial func() []view.Panel) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	c := &client{conn: conn}
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	for _, panel := range initial() {
		data, err := json.Marshal(PushMessage{Type: PushDisplay, Data: panel})
		if err == nil {
			_ = c.writeLocked(websocket.TextMessage, data)
		}
	}
	c.mu.Unlock()
	h.logger.Info("overlay connected", logging.Int("clients", total))

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
				c.mu.Unlock()
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	h.remove(c)
	h.logger.Info("overlay disconnected", logging.Int("clients", h.Clients()))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}
