package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "requestId"

// RequestID assigns a UUID to every request, echoed in the X-Request-ID
// response header and attached to audit metadata.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFrom returns the request's ID, or an empty string.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
