package middleware

import (
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"revjobs-messaging/internal/api/http/handler"
	"revjobs-messaging/internal/model"
	"revjobs-messaging/pkg/jwt"
)

func JWTAuth(publicKey *ecdsa.PublicKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		if cookie, err := c.Cookie("access"); err == nil {
			tokenStr = cookie
		}

		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ResponseWithError{
				Success: false,
				Error:   "Missing access token",
			})

			return
		}

		claims, err := jwt.ValidateToken(tokenStr, publicKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ResponseWithError{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		userID, err := parseUserIDClaim(claims[model.UserIDKey])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ResponseWithError{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(model.UserIDKey, userID)
		c.Set(model.UserNameKey, claims[model.UserNameKey])

		c.Next()
	}
}

// parseUserIDClaim copes with the two shapes the claim arrives in: JSON
// numbers decode as float64, but some issuers put the id in as a string.
func parseUserIDClaim(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected user id claim type %T", value)
	}
}
