package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"revjobs-messaging/internal/notify"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	BaseHandler

	log *zap.Logger
	hub *notify.Hub
}

func NewWSHandler(log *zap.Logger, hub *notify.Hub) *WSHandler {
	return &WSHandler{
		log: log,
		hub: hub,
	}
}

// LiveSession
// @Summary Open a live message session over WebSocket.
// @Description Upgrades the connection and pushes every new incoming message of the authenticated user as a JSON frame until the connection drops.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Failure 401 {object} ResponseWithError "Missing or invalid access token"
// @Router /messages/ws [get]
func (h *WSHandler) LiveSession(c *gin.Context) {
	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	notify.NewClient(h.hub, h.log, conn, userID).Serve()
}
