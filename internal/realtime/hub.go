package realtime

import (
	"sync"
)

// Client is a single push channel to a connected user. The network
// connection itself is owned by the websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub tracks connected clients per user and fans events out to them.
// A user may hold several connections (multiple tabs/devices).
type Hub struct {
	mu            sync.RWMutex
	userToClients map[uint64]map[Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		userToClients: make(map[uint64]map[Client]struct{}),
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID uint64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userToClients[userID]; !ok {
		h.userToClients[userID] = make(map[Client]struct{})
	}
	h.userToClients[userID][client] = struct{}{}
}

// Unregister removes a client; the user entry is dropped once empty.
func (h *Hub) Unregister(userID uint64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userToClients, userID)
		}
	}
}

// Push sends a message to every client of the user. Delivery is best
// effort; a failed write is left for the connection handler to clean up.
func (h *Hub) Push(userID uint64, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.userToClients[userID] {
		c.Send(message)
	}
}

// ConnectedUsers returns the number of users with at least one client.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userToClients)
}
