package api

import (
	"net/http"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	secLog *security.SecurityLogger
}

func NewAuthHandler(protected *gin.RouterGroup, secLog *security.SecurityLogger, limits ...gin.HandlerFunc) {
	handler := &AuthHandler{secLog: secLog}

	protected.POST("/login", append(limits, handler.Login)...)
}

type LoginResponse struct {
	UID string `json:"uid"`
}

// Login godoc
// @Summary      Verify ID token
// @Description  Checks the bearer ID token and returns the uid it was issued for
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=LoginResponse}
// @Failure      401  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /login [post]
// @Security     BearerAuth
func (h *AuthHandler) Login(c *gin.Context) {
	uid := middleware.UserID(c)
	h.secLog.LogLoginSuccess(c.Request.Context(), uid, c.ClientIP(), c.GetHeader("User-Agent"), c.GetString(middleware.RequestIDKey))
	response.Success(c, http.StatusOK, "Welcome!", LoginResponse{UID: uid})
}
