package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revjobs-messaging/internal/apperrors"
	"revjobs-messaging/internal/model"
)

const (
	UserAgentHeader = "User-Agent"
)

type BaseHandler struct{}

// GetUserID returns the caller's user id extracted from the access token by
// the auth middleware.
func (h *BaseHandler) GetUserID(c *gin.Context) (int64, error) {
	userIDValue, exists := c.Get(model.UserIDKey)
	if !exists {
		return 0, apperrors.ErrContextValueDoesNotExist
	}

	userID, ok := userIDValue.(int64)
	if !ok {
		return 0, apperrors.ErrContextValueInvalidType
	}

	return userID, nil
}

// ResponseWithData
// @Description Success envelope carrying a payload object.
type ResponseWithData struct {
	Success bool `json:"success"` // Request outcome
	Data    any  `json:"data"`    // Payload object
} // @Name _ResponseWithData

// ResponseWithMessage
// @Description Envelope carrying only a human-readable message.
type ResponseWithMessage struct {
	Success bool   `json:"success"` // Request outcome
	Message string `json:"message"` // Human-readable message
} // @Name _ResponseWithMessage

// ResponseWithError
// @Description Failure envelope carrying a human-readable error.
type ResponseWithError struct {
	Success bool   `json:"success"` // Always false
	Error   string `json:"error"`   // Human-readable error
} // @Name _ResponseWithError

func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ResponseWithError{
		Success: false,
		Error:   "method not allowed on this endpoint",
	})
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ResponseWithError{
		Success: false,
		Error:   "page not found",
	})
}
