package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Alert carries one transient notification payload for a specific user.
type Alert struct {
	TargetUserID uuid.UUID
	Payload      []byte
}

// Hub maintains the set of active clients and fans alerts out to the
// connections of the targeted user. Alerts for users without an open
// connection are dropped; nothing is queued across sessions.
type Hub struct {
	// Registered clients. Maps user ID to a set of active client connections.
	clients map[uuid.UUID]map[*Client]bool

	// Channel for sending alerts to specific users.
	send chan *Alert

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		send:       make(chan *Alert),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			log.Printf("WebSocket client registered for user %s (%d connections)", client.UserID, len(h.clients[client.UserID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()

		case alert := <-h.send:
			h.mu.RLock()
			for client := range h.clients[alert.TargetUserID] {
				select {
				case client.Send <- alert.Payload:
				default:
					log.Printf("Send channel full for a client of user %s, alert dropped", alert.TargetUserID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendDirectMessage queues an alert for every open connection of one user.
// Users without a connection simply miss the alert; the data is still
// visible on their next read.
func (h *Hub) SendDirectMessage(targetUserID uuid.UUID, payload []byte) {
	alert := &Alert{
		TargetUserID: targetUserID,
		Payload:      payload,
	}
	select {
	case h.send <- alert:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing alert for user %s, hub busy", targetUserID)
	}
}
