package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in and out of the service
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request identifier
const RequestIDKey = "request_id"

// RequestID keeps the caller's X-Request-ID or generates one, and echoes it back
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
