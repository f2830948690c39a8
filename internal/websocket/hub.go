package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/pkg/logger"
)

// Hub fans change events out to every connected admin UI session. There is
// no per-room routing: every staff client gets every badge event.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan notify.Event

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		events:     make(chan notify.Event, 256),
	}
}

// Run owns the client set. Call once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"actor":         client.ActorName,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"actor":         client.ActorName,
				"total_clients": total,
			})

		case event := <-h.events:
			h.dispatch(event)
		}
	}
}

// Broadcast queues a change event for every connected client. Never blocks
// the caller; the event is dropped when the hub queue is full.
func (h *Hub) Broadcast(event notify.Event) {
	select {
	case h.events <- event:
	default:
		logger.Warn("Event queue full, dropping change event", map[string]interface{}{
			"table":  event.Table,
			"action": event.Action,
		})
	}
}

func (h *Hub) dispatch(event notify.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal change event", err, nil)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: skip rather than stall the hub. The client
			// still converges via the counts endpoint.
			logger.Warn("Client send buffer full, skipping event", map[string]interface{}{
				"actor": client.ActorName,
			})
		}
	}
}

// ClientCount reports connected sessions, exposed on the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
