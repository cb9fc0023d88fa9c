package api

import (
	"net/http"
	"time"

	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/delivery/http/response"
	"skincare-backend/internal/domain"
	"skincare-backend/internal/usecase"
	"skincare-backend/pkg/logger"
	"skincare-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	RoutineUC domain.RoutineUsecase
	ProductUC domain.ProductUsecase
	ProfileUC domain.ProfileUsecase
	HealthUC  usecase.HealthUsecase
	Verifier  domain.IdentityVerifier

	RateLimiter     *middleware.RateLimiter
	GlobalRateLimit middleware.RateLimitConfig
	SecurityLogger  *security.SecurityLogger

	FrontendURL string
	Release     bool
	// Now supplies the default month for the monthly summary.
	Now func() time.Time
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.SecurityLogger == nil {
		deps.SecurityLogger = security.NewSecurityLogger(nil, "", "")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.FrontendURL, deps.Release)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(middleware.SecurityHeadersMiddleware())
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(deps.GlobalRateLimit))
	}
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		status := map[string]string{"status": "ok"}
		if deps.HealthUC != nil {
			status = deps.HealthUC.Check(c.Request.Context())
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.SecurityLogger))
	{
		var loginLimit []gin.HandlerFunc
		if deps.RateLimiter != nil {
			loginLimit = append(loginLimit, deps.RateLimiter.Middleware(middleware.LoginRateLimitConfig()))
		}
		NewAuthHandler(protected, deps.SecurityLogger, loginLimit...)
		NewRoutineHandler(protected, deps.RoutineUC, deps.SecurityLogger, deps.Now)
		NewProductHandler(protected, deps.ProductUC, deps.SecurityLogger)
		NewProfileHandler(protected, deps.ProfileUC, deps.SecurityLogger)
	}

	return r
}
