package api

import (
	"strings"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/pkg/apperror"
	"skincare-backend/pkg/security"
	"skincare-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bindJSON binds the body into req. On failure it records a 400 on the
// context, logs the event and returns false.
func bindJSON(c *gin.Context, secLog *security.SecurityLogger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		secLog.LogValidationFailed(
			c.Request.Context(),
			c.ClientIP(),
			c.GetString(middleware.RequestIDKey),
			c.FullPath(),
			validation.FieldErrors(err),
		)
		c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		return false
	}
	return true
}
