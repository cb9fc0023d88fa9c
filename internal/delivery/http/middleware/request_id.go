package middleware

import (
	"strings"

	"skincare-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey    = string(domain.KeyRequestID)
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags each request with an id, reusing the caller's X-Request-ID
// when it is short enough to be safe to echo.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
