package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/internal/domain"
	"skincare-backend/internal/usecase"
	"skincare-backend/pkg/apperror"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type RoutineHandler struct {
	routineUC domain.RoutineUsecase
	secLog    *security.SecurityLogger
	now       func() time.Time
}

func NewRoutineHandler(protected *gin.RouterGroup, routineUC domain.RoutineUsecase, secLog *security.SecurityLogger, now func() time.Time) {
	handler := &RoutineHandler{
		routineUC: routineUC,
		secLog:    secLog,
		now:       now,
	}

	routine := protected.Group("/routine")
	{
		routine.GET("", handler.GetRoutine)
		routine.POST("", handler.SaveRoutine)
		routine.POST("/add/:productId", handler.AddProduct)
		routine.DELETE("/remove/:productId", handler.RemoveProduct)
		routine.POST("/generate", handler.Generate)

		routine.GET("/status", handler.GetStatus)
		routine.POST("/status", handler.MarkApplied)
		routine.POST("/status/unmark", handler.UnmarkApplied)
		routine.GET("/status/monthly", handler.MonthlySummary)
		routine.GET("/status/monthly/export", handler.ExportMonthlySummary)
	}
}

// SaveRoutineRequest accepts products either as a flat list (read as the
// morning slot) or as {"am": [...], "pm": [...]}.
type SaveRoutineRequest struct {
	Time     []string    `json:"time" binding:"max=10,dive,max=50"`
	Products interface{} `json:"products" swaggertype:"object"`
}

type StatusRequest struct {
	ProductID string `json:"productId" binding:"required,max=200"`
	Slot      string `json:"slot" binding:"required,routine_slot"`
	Date      string `json:"date" binding:"omitempty,date_key"`
}

// GetRoutine godoc
// @Summary      Get routine
// @Description  Returns the user's routine, or the default one if none was saved
// @Tags         routine
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Routine}
// @Failure      401  {object}  response.Response
// @Router       /routine [get]
// @Security     BearerAuth
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	routine, err := h.routineUC.GetRoutine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Routine", routine)
}

// SaveRoutine godoc
// @Summary      Save routine
// @Description  Replaces time and products. A generated plan is kept.
// @Tags         routine
// @Accept       json
// @Produce      json
// @Param        routine  body      SaveRoutineRequest  true  "Routine"
// @Success      200      {object}  response.Response{data=domain.Routine}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /routine [post]
// @Security     BearerAuth
func (h *RoutineHandler) SaveRoutine(c *gin.Context) {
	var req SaveRoutineRequest
	if !bindJSON(c, h.secLog, &req) {
		return
	}

	routine, err := h.routineUC.SaveRoutine(c.Request.Context(), middleware.UserID(c), domain.RoutineInput{
		Time:     req.Time,
		Products: req.Products,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Routine saved successfully", routine)
}

// AddProduct godoc
// @Summary      Add product to routine
// @Tags         routine
// @Produce      json
// @Param        productId  path      string  true   "Product ID"
// @Param        slot       query     string  false  "am or pm (default am)"
// @Success      200        {object}  response.Response{data=domain.Routine}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Router       /routine/add/{productId} [post]
// @Security     BearerAuth
func (h *RoutineHandler) AddProduct(c *gin.Context) {
	routine, err := h.routineUC.AddProduct(c.Request.Context(), middleware.UserID(c), c.Query("slot"), c.Param("productId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Product added to routine", routine)
}

// RemoveProduct godoc
// @Summary      Remove product from routine
// @Description  Without a slot the product is removed from both slots
// @Tags         routine
// @Produce      json
// @Param        productId  path      string  true   "Product ID"
// @Param        slot       query     string  false  "am or pm"
// @Success      200        {object}  response.Response{data=domain.Routine}
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Router       /routine/remove/{productId} [delete]
// @Security     BearerAuth
func (h *RoutineHandler) RemoveProduct(c *gin.Context) {
	routine, err := h.routineUC.RemoveProduct(c.Request.Context(), middleware.UserID(c), c.Query("slot"), c.Param("productId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Product removed from routine", routine)
}

// Generate godoc
// @Summary      Generate routine plan
// @Description  Orders the user's products into morning and evening steps and stores the plan
// @Tags         routine
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /routine/generate [post]
// @Security     BearerAuth
func (h *RoutineHandler) Generate(c *gin.Context) {
	plan, err := h.routineUC.GeneratePlan(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Routine generated successfully", plan)
}

// MarkApplied godoc
// @Summary      Mark product applied
// @Description  Records a product as applied in a slot; date defaults to today (UTC)
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        status  body      StatusRequest  true  "Status"
// @Success      200     {object}  response.Response{data=domain.StatusReport}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /routine/status [post]
// @Security     BearerAuth
func (h *RoutineHandler) MarkApplied(c *gin.Context) {
	var req StatusRequest
	if !bindJSON(c, h.secLog, &req) {
		return
	}
	report, err := h.routineUC.MarkApplied(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated", report)
}

// UnmarkApplied godoc
// @Summary      Unmark product applied
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        status  body      StatusRequest  true  "Status"
// @Success      200     {object}  response.Response{data=domain.StatusReport}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /routine/status/unmark [post]
// @Security     BearerAuth
func (h *RoutineHandler) UnmarkApplied(c *gin.Context) {
	var req StatusRequest
	if !bindJSON(c, h.secLog, &req) {
		return
	}
	report, err := h.routineUC.UnmarkApplied(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated", report)
}

func (r StatusRequest) input() domain.StatusInput {
	return domain.StatusInput{ProductID: r.ProductID, Slot: r.Slot, Date: r.Date}
}

// GetStatus godoc
// @Summary      Daily status
// @Tags         status
// @Produce      json
// @Param        date  query     string  false  "YYYY-MM-DD, default today (UTC)"
// @Success      200   {object}  response.Response{data=domain.StatusReport}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /routine/status [get]
// @Security     BearerAuth
func (h *RoutineHandler) GetStatus(c *gin.Context) {
	report, err := h.routineUC.GetStatus(c.Request.Context(), middleware.UserID(c), c.Query("date"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Daily status", report)
}

// MonthlySummary godoc
// @Summary      Monthly summary
// @Description  One entry per calendar day with status and completion
// @Tags         status
// @Produce      json
// @Param        year   query     int  false  "Year, default current (UTC)"
// @Param        month  query     int  false  "Month 1-12, default current (UTC)"
// @Success      200    {object}  response.Response{data=[]domain.StatusReport}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /routine/status/monthly [get]
// @Security     BearerAuth
func (h *RoutineHandler) MonthlySummary(c *gin.Context) {
	year, month, ok := h.monthQuery(c)
	if !ok {
		return
	}

	days, err := h.routineUC.GetMonthlySummary(c.Request.Context(), middleware.UserID(c), year, month)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Monthly summary", days)
}

// ExportMonthlySummary godoc
// @Summary      Export monthly summary
// @Description  Downloads the monthly summary as an Excel or CSV file
// @Tags         status
// @Produce      octet-stream
// @Param        year    query     int     false  "Year, default current (UTC)"
// @Param        month   query     int     false  "Month 1-12, default current (UTC)"
// @Param        format  query     string  false  "Export format (xlsx, csv). Default: xlsx"
// @Success      200     {file}    binary
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /routine/status/monthly/export [get]
// @Security     BearerAuth
func (h *RoutineHandler) ExportMonthlySummary(c *gin.Context) {
	year, month, ok := h.monthQuery(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", usecase.FormatXLSX)
	data, filename, err := h.routineUC.ExportMonthlySummary(c.Request.Context(), middleware.UserID(c), year, month, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if strings.HasSuffix(filename, "."+usecase.FormatCSV) {
		contentType = "text/csv"
	}
	response.Attachment(c, filename, contentType, data)
}

// monthQuery reads year and month, defaulting to the current UTC month.
func (h *RoutineHandler) monthQuery(c *gin.Context) (int, int, bool) {
	now := h.now().UTC()
	year, ok := intQuery(c, "year", now.Year())
	if !ok {
		return 0, 0, false
	}
	month, ok := intQuery(c, "month", int(now.Month()))
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}

func intQuery(c *gin.Context, key string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.Error(apperror.BadRequest(key + " must be a number"))
		return 0, false
	}
	return v, true
}
