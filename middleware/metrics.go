package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/exvulsec/rugscope/metrics"
)

// CodeKey is the gin context key holding the code of the response envelope.
const CodeKey = "rugscope.code"

func SetCode(c *gin.Context, code int) {
	c.Set(CodeKey, code)
}

// RequestMetrics counts requests by route pattern. Responses always carry
// HTTP 200, so the status label comes from the envelope code when a handler
// recorded one.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := metrics.StatusBucket(c.Writer.Status())
		if code, ok := c.Get(CodeKey); ok {
			if n, ok := code.(int); ok {
				status = metrics.StatusBucket(n)
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
