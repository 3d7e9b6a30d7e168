package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeEvent notifies a dashboard that a row it renders changed. The
// payload is advisory; clients refetch rather than trusting it as state.
type ChangeEvent struct {
	Kind   string `json:"kind"`  // e.g. "meal_request.updated", "notification.created"
	Table  string `json:"table"` // "meal_requests" | "donations" | "notifications"
	Record any    `json:"record,omitempty"`
}

type WSClient struct {
	UserID string
	Admin  bool
	Conn   *websocket.Conn
}

// RealtimeHub fans entity-change events out to connected clients: the
// owning user's connections plus every admin dashboard.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
	admins  map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[string]map[*WSClient]struct{}),
		admins:  make(map[*WSClient]struct{}),
	}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	if c.Admin {
		h.admins[c] = struct{}{}
	}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	delete(h.admins, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastChange delivers an event to one user's connections and to all
// admins. Write errors are ignored; a dead connection is cleaned up when
// its reader exits.
func (h *RealtimeHub) BroadcastChange(userID string, event ChangeEvent) {
	msg, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
	for c := range h.admins {
		if c.UserID == userID {
			continue // already got it above
		}
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
