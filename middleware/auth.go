// middleware/auth.go

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-rajatverma/doorward/logging"
)

// TokenAuth checks the shared API token the chat layer presents with every
// request. The actor identifier travels alongside it so audit entries can
// name who asked for the change.
func TokenAuth(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" {
			// No token configured: open instance, typically local dev.
			c.Next()
			return
		}

		presented := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiToken)) != 1 {
			logger.Warn("Rejected request with invalid API token",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if actor := c.GetHeader("X-Actor-ID"); actor != "" {
			c.Set("actorID", actor)
		}
		c.Next()
	}
}
