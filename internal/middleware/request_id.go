package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"edumaster/web/internal/apiclient"
)

const requestIDKey = "request_id"

// RequestID tags the request and propagates the id to backend calls made with
// the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(apiclient.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(apiclient.RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

func requestIDOf(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
