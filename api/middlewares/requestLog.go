package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/risport-go/tool"
)

const RequestIDHeader = "X-Request-Id"

// RequestLog tags each request with an id and logs it once it completes.
func RequestLog(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = tool.GenerateRequestID()
	}
	c.Header(RequestIDHeader, id)
	start := time.Now()

	c.Next()

	tool.DefaultLogger.Debugf("[Gateway] %s %s %s -> %d (%v)", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
}
