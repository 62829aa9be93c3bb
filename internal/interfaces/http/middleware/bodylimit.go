package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. A
// non-positive maxBytes disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		// streaming bodies without a declared length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
