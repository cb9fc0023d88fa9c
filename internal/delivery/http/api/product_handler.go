package api

import (
	"net/http"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/internal/domain"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productUC domain.ProductUsecase
	secLog    *security.SecurityLogger
}

func NewProductHandler(protected *gin.RouterGroup, productUC domain.ProductUsecase, secLog *security.SecurityLogger) {
	handler := &ProductHandler{productUC: productUC, secLog: secLog}

	products := protected.Group("/products")
	{
		products.GET("", handler.List)
		products.POST("", handler.Create)
		products.GET("/:id", handler.Get)
	}

	owned := protected.Group("/me/products")
	{
		owned.GET("", handler.ListOwned)
		owned.POST("/:id", handler.Link)
		owned.DELETE("/:id", handler.Unlink)
	}
}

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required,max=200,no_emoji"`
	Category string `json:"category" binding:"required,max=100"`
	Brand    string `json:"brand" binding:"max=100"`
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Product}
// @Failure      401  {object}  response.Response
// @Router       /products [get]
// @Security     BearerAuth
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Products", products)
}

// Get godoc
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=domain.Product}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [get]
// @Security     BearerAuth
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Product", product)
}

// Create godoc
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      CreateProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=domain.Product}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /products [post]
// @Security     BearerAuth
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if !bindJSON(c, h.secLog, &req) {
		return
	}

	product := &domain.Product{Name: req.Name, Category: req.Category, Brand: req.Brand}
	if err := h.productUC.Create(c.Request.Context(), product); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Product created successfully", product)
}

// ListOwned godoc
// @Summary      List my products
// @Description  Products linked to the current user; these feed routine generation
// @Tags         products
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Product}
// @Failure      401  {object}  response.Response
// @Router       /me/products [get]
// @Security     BearerAuth
func (h *ProductHandler) ListOwned(c *gin.Context) {
	products, err := h.productUC.ListOwned(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My products", products)
}

// Link godoc
// @Summary      Link product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /me/products/{id} [post]
// @Security     BearerAuth
func (h *ProductHandler) Link(c *gin.Context) {
	if err := h.productUC.Link(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Product linked", nil)
}

// Unlink godoc
// @Summary      Unlink product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /me/products/{id} [delete]
// @Security     BearerAuth
func (h *ProductHandler) Unlink(c *gin.Context) {
	if err := h.productUC.Unlink(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Product unlinked", nil)
}
