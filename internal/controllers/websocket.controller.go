package controllers

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"vnwidget/internal/middleware"
	"vnwidget/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocketController upgrades /ws requests and attaches them to the hub
type WebSocketController struct {
	hub            *services.WebSocketHub
	auth           *services.AuthService
	securityLogger *middleware.SecurityLogger
	upgrader       websocket.Upgrader
	nextID         atomic.Uint64
}

func NewWebSocketController(hub *services.WebSocketHub, auth *services.AuthService, securityLogger *middleware.SecurityLogger) *WebSocketController {
	return &WebSocketController{
		hub:            hub,
		auth:           auth,
		securityLogger: securityLogger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same policy as the HTTP views: any origin, token required
				return true
			},
		},
	}
}

// HandleWebSocket handles incoming WebSocket connections
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	if !wc.auth.Check(c.Query("token")) {
		if wc.securityLogger != nil {
			wc.securityLogger.LogFailedAuth(c.ClientIP(), "websocket: invalid or missing token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &services.ClientConnection{
		ID:   fmt.Sprintf("%s-%d", c.ClientIP(), wc.nextID.Add(1)),
		Conn: ws,
		Send: make(chan services.WebSocketMessage, 16),
	}
	if !wc.hub.Register(client) {
		ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		ws.Close()
		return
	}
	if wc.securityLogger != nil {
		wc.securityLogger.LogWebSocketConnected(c.ClientIP(), client.ID)
	}

	go wc.readPump(client, c.ClientIP())
	go writePump(client)
}

// readPump reads messages from the WebSocket client
func (wc *WebSocketController) readPump(client *services.ClientConnection, ip string) {
	defer func() {
		wc.hub.Unregister(client.ID)
		client.Conn.Close()
		if wc.securityLogger != nil {
			wc.securityLogger.LogWebSocketDisconnected(ip, client.ID)
		}
	}()

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] WebSocket error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			wc.hub.SendMessage(client.ID, services.WebSocketMessage{Type: "pong", Timestamp: time.Now()})

		case "unsubscribe":
			return

		default:
			log.Printf("[WS] Unknown message type: %s", msg.Type)
		}
	}
}

// writePump writes messages to the WebSocket client
func writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for msg := range client.Send {
		client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := client.Conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Write error: %v", err)
			}
			return
		}
	}

	// Channel closed by the hub
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
