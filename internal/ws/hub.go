package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// storeEvent routes a marshaled event to one store's room.
type storeEvent struct {
	StoreID uuid.UUID
	Message []byte
}

// Hub maintains the set of active dashboard connections, grouped per
// store, and fans events out to them.
type Hub struct {
	// Registered clients by store ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *storeEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *storeEvent, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.storeID] == nil {
				h.rooms[client.storeID] = make(map[*Client]bool)
			}
			h.rooms[client.storeID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.storeID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.storeID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[event.StoreID] {
				select {
				case client.send <- event.Message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.StoreID], client)
					if len(h.rooms[event.StoreID]) == 0 {
						delete(h.rooms, event.StoreID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToStore sends an event to all clients watching a store.
// This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastToStore(storeID uuid.UUID, event interface{}) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: marshal ws event: %v", err)
		return
	}
	h.broadcast <- &storeEvent{StoreID: storeID, Message: message}
}
