// Package ws pushes checklist events to dashboard clients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Message is the envelope for every frame sent to clients.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// client is one registered WebSocket connection.
type client struct {
	sock   *websocket.Conn
	cancel context.CancelFunc
}

// Hub fans checklist events out to every connected dashboard client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// HandleWS upgrades the request and serves the connection until the client
// disconnects. The read loop runs inside the handler: net/http cancels the
// request context the moment the handler returns, so returning early would
// tear the connection down immediately.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{sock: sock, cancel: cancel}
	h.add(c)
	defer func() {
		h.remove(c)
		_ = sock.Close(websocket.StatusNormalClosure, "")
	}()

	slog.Info("websocket connected", "remote", r.RemoteAddr)

	// Clients only listen. Reading consumes control frames and returns
	// when the peer closes or a failed broadcast cancels the connection.
	for {
		if _, _, err := sock.Read(ctx); err != nil {
			return
		}
	}
}

// Broadcast sends msg to every client. Clients whose write fails are
// dropped so one dead connection cannot wedge the rest.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	var dead []*client
	for c := range h.clients {
		if err := c.sock.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("websocket write failed", "error", err)
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.remove(c)
	}
}

// ConnectionCount returns the number of registered clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		c.cancel()
		delete(h.clients, c)
		slog.Info("websocket disconnected")
	}
}
