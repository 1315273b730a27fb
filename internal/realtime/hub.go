package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub manages the active dashboard WebSocket connections and fans change
// events out to all of them. Dashboards are anonymous peers, so messages are
// always broadcast; there is no per-user routing.
type Hub struct {
	clients    map[string]*Client // connID -> Client
	register   chan *Client
	unregister chan string
	broadcast  chan []byte
	mu         sync.RWMutex
}

// NewHub creates and starts a hub.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan string),
		broadcast:  make(chan []byte),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	log.Info().Msg("Dashboard hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ConnID] = client
			clientCount := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("connID", client.ConnID).Int("clients", clientCount).Msg("Dashboard connected")

		case connID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[connID]; ok {
				delete(h.clients, connID)
				close(client.send)
			}
			clientCount := len(h.clients)
			h.mu.Unlock()
			log.Info().Str("connID", connID).Int("clients", clientCount).Msg("Dashboard disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the message rather than the hub.
					// The dashboard reconciles with a full reload on reconnect.
					log.Warn().Str("connID", client.ConnID).Msg("Send queue full, dropping message")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// RegisterClient adds a dashboard connection to the hub.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient removes a dashboard connection.
func (h *Hub) UnregisterClient(connID string) {
	h.unregister <- connID
}

// Broadcast queues a message for every connected dashboard.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// ClientCount reports how many dashboards are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
