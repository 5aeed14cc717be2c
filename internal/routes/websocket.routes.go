package routes

import (
	"vnwidget/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the push feed. Tokens are checked by the
// controller itself; JWT generation is CLI-only (no HTTP endpoint).
func RegisterWebSocketRoutes(r *gin.Engine, wc *controllers.WebSocketController) {
	r.GET("/ws", wc.HandleWebSocket)
}
