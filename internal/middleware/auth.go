package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
)

const userIDKey = "userID"

// SessionResolver maps a session token to a user id
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// SessionAuth authenticates the request from ?token= or an Authorization: Bearer header
func SessionAuth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			status := common.HTTPStatus(err)
			switch {
			case errors.Is(err, common.ErrExpiredToken):
				common.ErrorResponse(c, status, "session expired", err)
			case status == http.StatusUnauthorized:
				common.ErrorResponse(c, status, "invalid session", err)
			default:
				common.ErrorResponse(c, http.StatusInternalServerError, "failed to resolve session", err)
			}
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// extractToken prefers the query parameter; browsers cannot set headers on WebSocket upgrades
func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}
