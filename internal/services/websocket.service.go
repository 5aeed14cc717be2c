package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "traffic", "ping", "pong", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// FramePublisher receives every traffic frame the hub broadcasts
type FramePublisher interface {
	Publish(data []byte) error
}

// WebSocketHub pushes traffic snapshots to all connected clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	unregister chan string
	mu         sync.RWMutex
	closed     bool
	interval   time.Duration
	vnstat     *VnstatService
	publisher  FramePublisher
	done       chan struct{}
}

// NewWebSocketHub creates a hub. publisher may be nil.
func NewWebSocketHub(vnstat *VnstatService, interval time.Duration, publisher FramePublisher) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		unregister: make(chan string),
		interval:   interval,
		vnstat:     vnstat,
		publisher:  publisher,
		done:       make(chan struct{}),
	}
}

// Run manages the hub's event loop until ctx is cancelled
func (h *WebSocketHub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			// Deliver frames queued before shutdown, e.g. the shutdown notice.
			h.drainBroadcast()
			h.mu.Lock()
			h.closed = true
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.fanOut(msg)

		case <-ticker.C:
			if h.publisher == nil && h.ClientCount() == 0 {
				continue
			}
			msg := h.gatherFrame(ctx)
			h.publish(msg)
			if h.ClientCount() > 0 {
				h.fanOut(msg)
			}
		}
	}
}

func (h *WebSocketHub) drainBroadcast() {
	for {
		select {
		case msg := <-h.broadcast:
			h.fanOut(msg)
		default:
			return
		}
	}
}

func (h *WebSocketHub) fanOut(msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			// Client's send channel is full, skip this message
		}
	}
}

// gatherFrame builds a traffic message from the current vnstat data
func (h *WebSocketHub) gatherFrame(ctx context.Context) WebSocketMessage {
	snapshots, err := h.vnstat.GetSnapshots(ctx)
	if err != nil {
		log.Printf("[WS] Error gathering traffic: %v", err)
		return WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: err.Error()}
	}
	return WebSocketMessage{Type: "traffic", Timestamp: time.Now(), Data: snapshots}
}

func (h *WebSocketHub) publish(msg WebSocketMessage) {
	if h.publisher == nil || msg.Type != "traffic" {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Error marshaling frame: %v", err)
		return
	}
	if err := h.publisher.Publish(data); err != nil {
		log.Printf("[NATS] Publish failed: %v", err)
	}
}

// Register adds a new client to the hub. It fails once the hub has stopped.
func (h *WebSocketHub) Register(client *ClientConnection) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)
	return true
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// Broadcast queues a message for all connected clients. Messages queued
// before Run stops are still delivered.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// SendMessage sends a message to a specific client. Messages to unknown
// clients or full send buffers are dropped.
func (h *WebSocketHub) SendMessage(clientID string, msg WebSocketMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return false
	}
	select {
	case client.Send <- msg:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
