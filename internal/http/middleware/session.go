package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"transitbook/internal/auth"
)

const sessionIDKey = "session_id"

// SessionRequired validates the wizard session bearer token and stores the
// session id on the context.
func SessionRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		sid, err := auth.ParseSessionToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing or invalid session token",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// GetSessionID extracts the wizard session id set by SessionRequired.
func GetSessionID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, ok := c.Get(sessionIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
