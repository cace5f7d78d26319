package middleware

import (
	"github.com/billerops/ticketbridge/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request identifier, inbound
// and outbound.
const RequestIDHeader = "X-Request-ID"

// RequestID returns a middleware that tags every request with an identifier:
// the inbound X-Request-ID when the caller supplies one, a fresh UUID
// otherwise. The identifier is stored in the Gin context for the access log
// and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(logger.RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
