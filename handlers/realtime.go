package handlers

import (
	"net/http"

	"dencare/services/realtime"
	"dencare/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the separately hosted frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RealtimeHandler upgrades HTTP requests into hub-managed websocket
// connections.
type RealtimeHandler struct {
	Hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// WebsocketHandler performs the upgrade and registers the connection.
// Authentication happens over the socket itself via the authenticate event.
func (h *RealtimeHandler) WebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.Hub.Register(conn)
}
