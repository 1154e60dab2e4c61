package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoppulse/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that caps the request body size. Webhook
// deliveries and trigger requests are small, anything larger is rejected
// before a handler reads it.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		// Streaming requests have no Content-Length, the limited reader
		// catches those on read.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
