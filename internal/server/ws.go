// Package server provides the HTTP server for the Mudra pointer control system.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler pushes live pointer events and pipeline reports to
// WebSocket clients. Unlike a polling feed, producers call Broadcast as
// things happen; the handler only fans the message out. Broadcast is
// safe for concurrent callers: each connection carries a write mutex,
// since gorilla/websocket allows only one concurrent writer per conn.
type EventsHandler struct {
	clients map[*websocket.Conn]*wsClient
	mu      sync.RWMutex
}

// wsClient serializes writes to one connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// NewEventsHandler creates an EventsHandler with no connected clients.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{
		clients: make(map[*websocket.Conn]*wsClient),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = &wsClient{conn: conn}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message of the given type to every connected client.
// Marshalling or write failures drop the message for that client; the
// read loop notices dead connections and removes them.
func (h *EventsHandler) Broadcast(kind string, payload any) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(map[string]any{
		"type":      kind,
		"payload":   payload,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}

	h.mu.RLock()
	for _, client := range h.clients {
		client.write(msg)
	}
	h.mu.RUnlock()
}
