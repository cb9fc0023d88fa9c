package api

import (
	"net/http"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/internal/domain"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
	secLog    *security.SecurityLogger
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, secLog *security.SecurityLogger) {
	handler := &ProfileHandler{profileUC: profileUC, secLog: secLog}

	protected.GET("/profile", handler.GetProfile)
	protected.POST("/profile", handler.SaveProfile)
}

// GetProfile godoc
// @Summary      Get skin profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SkinProfile}
// @Failure      401  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skin profile", profile)
}

// SaveProfile godoc
// @Summary      Save skin profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.SkinProfile  true  "Skin profile"
// @Success      200      {object}  response.Response{data=domain.SkinProfile}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /profile [post]
// @Security     BearerAuth
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var profile domain.SkinProfile
	if !bindJSON(c, h.secLog, &profile) {
		return
	}
	if err := h.profileUC.SaveProfile(c.Request.Context(), middleware.UserID(c), &profile); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved successfully", profile)
}
