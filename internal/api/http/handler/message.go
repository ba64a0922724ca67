package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/model"
)

const messageNotFoundText = "Message not found"

type MessageService interface {
	SendMessage(ctx context.Context, req *model.MessageCreateRequest) (*model.Message, error)
	GetConversation(ctx context.Context, userA, userB int64) ([]*model.Message, error)
	GetUserMessages(ctx context.Context, userID int64) ([]*model.Message, error)
	GetUnreadMessages(ctx context.Context, userID int64) ([]*model.Message, error)
	GetUnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id string) (*model.Message, error)
	MarkConversationAsRead(ctx context.Context, userID, otherUserID int64) error
	SearchMessages(ctx context.Context, userID int64, query string) ([]*model.Message, error)
}

type MessageHandler struct {
	BaseHandler

	log *zap.Logger
	svc MessageService
}

func NewMessageHandler(log *zap.Logger, svc MessageService) *MessageHandler {
	return &MessageHandler{
		log: log,
		svc: svc,
	}
}

// SendMessage
// @Summary Send a direct message.
// @Description Persists the message, fills sentAt/isRead when omitted and pushes the payload to the receiver's live sessions.
// @Tags Messages
// @Accept json
// @Produce json
// @Param input body model.MessageCreateRequest true "Message fields"
// @Success 200 {object} ResponseWithData{data=model.Message} "Saved record"
// @Failure 400 {object} ResponseWithError "Invalid JSON body"
// @Failure 500 {object} ResponseWithError "Failed to send message"
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	message, err := h.svc.SendMessage(ctx, &req)
	if err != nil {
		h.log.Error("Failed to send message", zap.Error(err))

		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    message,
	})
}

// GetConversation
// @Summary Get the conversation between two users.
// @Description Returns every message exchanged between the two users in either direction, oldest first.
// @Tags Messages
// @Produce json
// @Param user1Id query int true "First participant"
// @Param user2Id query int true "Second participant"
// @Success 200 {object} ResponseWithData{data=[]model.Message} "Ordered conversation"
// @Failure 400 {object} ResponseWithError "Invalid query params"
// @Failure 500 {object} ResponseWithError "Failed to load conversation"
// @Router /messages/conversation [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	ctx := c.Request.Context()

	var params model.ConversationQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	messages, err := h.svc.GetConversation(ctx, params.User1ID, params.User2ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    messages,
	})
}

// GetUserMessages
// @Summary Get all messages involving a user.
// @Description Returns every message the user sent or received, newest first.
// @Tags Messages
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} ResponseWithData{data=[]model.Message} "User's messages"
// @Failure 400 {object} ResponseWithError "Invalid path param"
// @Failure 500 {object} ResponseWithError "Failed to load messages"
// @Router /messages/user/{user_id} [get]
func (h *MessageHandler) GetUserMessages(c *gin.Context) {
	ctx := c.Request.Context()

	var uri model.UserIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	messages, err := h.svc.GetUserMessages(ctx, uri.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    messages,
	})
}

// GetUnreadMessages
// @Summary Get a user's unread messages.
// @Description Returns messages where the user is the receiver and the read flag is still false.
// @Tags Messages
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} ResponseWithData{data=[]model.Message} "Unread messages"
// @Failure 400 {object} ResponseWithError "Invalid path param"
// @Failure 500 {object} ResponseWithError "Failed to load messages"
// @Router /messages/user/{user_id}/unread [get]
func (h *MessageHandler) GetUnreadMessages(c *gin.Context) {
	ctx := c.Request.Context()

	var uri model.UserIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	messages, err := h.svc.GetUnreadMessages(ctx, uri.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    messages,
	})
}

// GetUnreadCount
// @Summary Count a user's unread messages.
// @Tags Messages
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} ResponseWithData{data=int} "Unread count"
// @Failure 400 {object} ResponseWithError "Invalid path param"
// @Failure 500 {object} ResponseWithError "Failed to count messages"
// @Router /messages/user/{user_id}/unread/count [get]
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	ctx := c.Request.Context()

	var uri model.UserIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	count, err := h.svc.GetUnreadCount(ctx, uri.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    count,
	})
}

// MarkAsRead
// @Summary Mark one message as read.
// @Description One-way transition, calling it twice is a no-op.
// @Tags Messages
// @Produce json
// @Param id path string true "Message id"
// @Success 200 {object} ResponseWithData{data=model.Message} "Updated record"
// @Failure 404 {object} ResponseWithError "Message not found"
// @Failure 500 {object} ResponseWithError "Failed to update message"
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	ctx := c.Request.Context()

	var uri model.MessageIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	message, err := h.svc.MarkAsRead(ctx, uri.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageDoesNotExist) {
			c.JSON(http.StatusNotFound, ResponseWithError{
				Success: false,
				Error:   messageNotFoundText,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    message,
	})
}

// MarkConversationAsRead
// @Summary Mark a conversation as read.
// @Description Marks the user's unread incoming messages as read.
// @Tags Messages
// @Produce json
// @Param userId query int true "Receiving user"
// @Param otherUserId query int true "Conversation partner"
// @Success 200 {object} ResponseWithMessage "Conversation marked as read"
// @Failure 400 {object} ResponseWithError "Invalid query params"
// @Failure 500 {object} ResponseWithError "Failed to update messages"
// @Router /messages/conversation/read [patch]
func (h *MessageHandler) MarkConversationAsRead(c *gin.Context) {
	ctx := c.Request.Context()

	var params model.ConversationReadQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if err := h.svc.MarkConversationAsRead(ctx, params.UserID, params.OtherUserID); err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Success: true,
		Message: "Conversation marked as read",
	})
}

// SearchMessages
// @Summary Search a user's messages.
// @Description Full-text search over the bodies of the user's conversations, newest first.
// @Tags Messages
// @Produce json
// @Param user_id path int true "User id"
// @Param q query string true "Search query"
// @Success 200 {object} ResponseWithData{data=[]model.Message} "Matching messages"
// @Failure 400 {object} ResponseWithError "Invalid params"
// @Failure 500 {object} ResponseWithError "Search failed"
// @Router /messages/user/{user_id}/search [get]
func (h *MessageHandler) SearchMessages(c *gin.Context) {
	ctx := c.Request.Context()

	var uri model.UserIDPathParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	var params model.MessageSearchQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	messages, err := h.svc.SearchMessages(ctx, uri.UserID, params.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithError{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Success: true,
		Data:    messages,
	})
}
