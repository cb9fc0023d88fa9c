package middleware

import (
	"net/http"

	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/pkg/apperror"
	"skincare-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperror.From(err); ok {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Errorw("Request failed",
					"path", c.FullPath(),
					"request_id", c.GetString(RequestIDKey),
					"message", appErr.Message,
					"error", appErr.Err,
				)
			}
			response.Fail(c, appErr.Code, appErr.Message)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.Errorw("Internal Server Error",
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
			"error", err,
		)
		response.Fail(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
