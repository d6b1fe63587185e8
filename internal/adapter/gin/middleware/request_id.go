package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-roster/pkg/logger"
)

// RequestID reuses the caller's x-request-id header or generates one, and
// stores it in the request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(logger.RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
