package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exvulsec/rugscope/model"
)

const (
	APIKEY       = "apikey"
	APIKeyHeader = "X-API-Key"
)

// CheckAPIKEY accepts the key from the apikey query parameter or the
// X-API-Key header. An empty key disables the check.
func CheckAPIKEY(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.Query(APIKEY)
		if key == "" {
			key = c.GetHeader(APIKeyHeader)
		}
		if key != apiKey {
			SetCode(c, http.StatusUnauthorized)
			c.AbortWithStatusJSON(http.StatusOK, model.NewMessage(http.StatusUnauthorized, "invalid api key", nil))
			return
		}
		c.Next()
	}
}
