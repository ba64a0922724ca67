package route

import "github.com/gin-gonic/gin"

type MessageHandler interface {
	SendMessage(c *gin.Context)
	GetConversation(c *gin.Context)
	GetUserMessages(c *gin.Context)
	GetUnreadMessages(c *gin.Context)
	GetUnreadCount(c *gin.Context)
	MarkAsRead(c *gin.Context)
	MarkConversationAsRead(c *gin.Context)
	SearchMessages(c *gin.Context)
}

func RegisterMessageRoutes(g *gin.RouterGroup, h MessageHandler) {
	g.POST("", h.SendMessage)
	g.GET("/conversation", h.GetConversation)
	g.PATCH("/conversation/read", h.MarkConversationAsRead)
	g.GET("/user/:user_id", h.GetUserMessages)
	g.GET("/user/:user_id/unread", h.GetUnreadMessages)
	g.GET("/user/:user_id/unread/count", h.GetUnreadCount)
	g.GET("/user/:user_id/search", h.SearchMessages)
	g.PATCH("/:id/read", h.MarkAsRead)
}
