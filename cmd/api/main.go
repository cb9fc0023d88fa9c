package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skincare-backend/config"
	_ "skincare-backend/docs" // Important for Swagger
	"skincare-backend/internal/delivery/http/api"
	"skincare-backend/internal/delivery/http/middleware"
	"skincare-backend/internal/domain"
	"skincare-backend/internal/repository/document"
	"skincare-backend/internal/usecase"
	"skincare-backend/pkg/auth"
	"skincare-backend/pkg/database"
	"skincare-backend/pkg/docstore"
	"skincare-backend/pkg/logger"
	"skincare-backend/pkg/planner"
	"skincare-backend/pkg/redis"
	"skincare-backend/pkg/security"
	"skincare-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Skincare Routine API
// @version         1.0
// @description     Routine, daily status and product endpoints for the skincare tracker.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.IsRelease())
	defer logger.Sync()
	gin.SetMode(cfg.GinMode)
	logger.Log.Infow("Starting skincare backend", "port", cfg.Port, "store", cfg.StoreDriver)

	ctx := context.Background()

	// 3. Setup Document Store
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Errorw("Failed to open document store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional)
	redisClient, err := redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warnw("Redis unavailable, rate limiting falls back to memory", "error", err)
		redisClient = nil
	}

	// 5. Setup Repositories
	userRepo := document.NewUserRepository(store)
	statusRepo := document.NewStatusRepository(store)
	productRepo := document.NewProductRepository(store)

	// 6. Setup Planner
	routinePlanner := newPlanner(ctx, cfg)

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	validation.RegisterWithGin()

	routineUC := usecase.NewRoutineUsecase(userRepo, statusRepo, productRepo, routinePlanner, time.Now)
	productUC := usecase.NewProductUsecase(productRepo, validate)
	profileUC := usecase.NewProfileUsecase(userRepo, validate)
	healthUC := usecase.NewHealthUsecase(store)

	// 8. Setup Auth (Firebase ID tokens via JWKS)
	jwksURL := cfg.AuthJWKSURL
	if jwksURL == "" {
		jwksURL = auth.FirebaseJWKSURL
	}
	verifier := auth.NewVerifier(auth.NewProvider(jwksURL), auth.VerifierConfig{
		ProjectID:  cfg.FirebaseProjectID,
		HMACSecret: cfg.AuthJWTSecret,
	})

	secLog := security.NewSecurityLogger(logger.Log.Desugar(), "skincare-backend", security.EnvironmentName(cfg.GinMode))
	rateLimiter := middleware.NewRateLimiter(redisClient, secLog)

	// 9. Setup Router
	router := api.NewRouter(api.RouterDeps{
		RoutineUC:       routineUC,
		ProductUC:       productUC,
		ProfileUC:       profileUC,
		HealthUC:        healthUC,
		Verifier:        verifier,
		RateLimiter:     rateLimiter,
		GlobalRateLimit: middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold, time.Duration(cfg.RateLimitWindowSeconds)*time.Second),
		SecurityLogger:  secLog,
		FrontendURL:     cfg.FrontendURL,
		Release:         cfg.IsRelease(),
		Now:             time.Now,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorw("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}
	closeAll(shutdownCtx, store, redisClient, rateLimiter)

	logger.Log.Info("Server exiting")
}

// openStore connects the document store chosen by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		store, err := docstore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		store, err := docstore.NewPostgresStore(ctx, pool, cfg.DocstoreTable)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	case config.StoreMemory:
		return docstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// newPlanner falls back to a planner that always fails when no API key is
// set, so the rest of the API still starts.
func newPlanner(ctx context.Context, cfg *config.Config) domain.RoutinePlanner {
	p, err := planner.NewGeminiPlanner(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		if !errors.Is(err, planner.ErrNotConfigured) {
			logger.Log.Warnw("Gemini client unavailable", "error", err)
		}
		return planner.Unconfigured{}
	}
	return p
}

func closeAll(ctx context.Context, store docstore.Store, redisClient *goredis.Client, limiter *middleware.RateLimiter) {
	limiter.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Log.Warnw("Redis close failed", "error", err)
		}
	}
	if err := store.Close(ctx); err != nil {
		logger.Log.Warnw("Document store close failed", "error", err)
	}
}
