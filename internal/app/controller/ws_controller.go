package controller

import (
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/dinperin/simikm-backend/internal/websocket"
	"github.com/gin-gonic/gin"
)

type WSController struct {
	hub *websocket.Hub
}

func NewWSController(hub *websocket.Hub) *WSController {
	return &WSController{
		hub: hub,
	}
}

// Updates upgrades the connection and streams change events until the
// client disconnects. Auth runs in middleware, via the token query param.
// GET /api/v1/ws/updates?token=
func (ctrl *WSController) Updates(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor := actorFromContext(c)
	if err := ctrl.hub.Serve(c.Writer, c.Request, actor.Name); err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"actor": actor.Name,
		})
	}
}
