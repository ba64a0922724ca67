package route

import "github.com/gin-gonic/gin"

type WSHandler interface {
	LiveSession(c *gin.Context)
}

func RegisterWS(g *gin.RouterGroup, h WSHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("/ws", jwtAuthMiddleware)
	protected.GET("", h.LiveSession)
}
