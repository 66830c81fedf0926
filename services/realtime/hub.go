// Package realtime fans server-side state changes out to the browser tabs of
// a session over WebSocket, so a removal in one tab shows up in the others.
package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	// Server -> Client event types
	TypeBinChanged      = "bin.changed"
	TypeSessionExpired  = "session.expired"
	TypeCalendarRefresh = "calendar.refresh"
)

// Message is the envelope every event is sent in.
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

func NewMessage(msgType string, payload interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Client is one connected tab. Messages queue on send; a tab that stops
// draining is disconnected rather than blocking the others.
type Client struct {
	sessionID string
	send      chan []byte
}

func (c *Client) Send() <-chan []byte { return c.send }

// Hub tracks connected clients keyed by session, and broadcasts only within
// a session: tabs never see other students' events.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*Client]bool)}
}

func (h *Hub) Register(sessionID string) *Client {
	c := &Client{sessionID: sessionID, send: make(chan []byte, 256)}
	h.mu.Lock()
	clients, ok := h.sessions[sessionID]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[sessionID] = clients
	}
	clients[c] = true
	h.mu.Unlock()
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok = clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
}

// Broadcast delivers msg to every client of the session. Clients whose send
// buffer is full are dropped.
func (h *Hub) Broadcast(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.sessions[sessionID]
	for c := range clients {
		select {
		case c.send <- data:
		default:
			delete(clients, c)
			close(c.send)
		}
	}
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}
}

// ClientCount returns the number of connected clients for the session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
