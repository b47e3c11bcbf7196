package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ruslanmv/medical-ai-hospital/internal/infra/logger"
)

// RequestIDHeader is honoured when the caller supplies its own identifier.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation identifier to the request context and
// echoes it on the response so clients can report it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID))

		c.Next()
	}
}
