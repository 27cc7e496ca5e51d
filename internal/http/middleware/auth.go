package middleware

import (
	"net/http"
	"strings"

	"rps_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the caller's session id.
const SessionKey = "session_id"

// SessionAuth accepts "Authorization: Bearer <token>" or ?token=<token>.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sessionID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}
