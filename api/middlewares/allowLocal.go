package middlewares

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlyAllowLocal rejects requests that do not come from a loopback address.
func OnlyAllowLocal(c *gin.Context) {
	if ip := net.ParseIP(c.ClientIP()); ip != nil && ip.IsLoopback() {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
}
