package middleware

import (
	"net/http"
	"strings"

	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/internal/domain"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const userIDKey = string(domain.KeyUserID)

// AuthMiddleware requires a bearer ID token and stores the verified uid in
// the gin context.
func AuthMiddleware(verifier domain.IdentityVerifier, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(reason string) {
			secLog.LogUnauthorizedAccess(
				c.Request.Context(),
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString(RequestIDKey),
				c.FullPath(),
				reason,
			)
			response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		}

		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			reject("missing bearer token")
			return
		}

		uid, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil || uid == "" {
			reason := "empty uid"
			if err != nil {
				reason = err.Error()
			}
			reject(reason)
			return
		}

		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the uid set by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
