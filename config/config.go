package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string
	GinMode     string
	FrontendURL string
	// Document store
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DBUrl         string
	DocstoreTable string
	// Identity
	FirebaseProjectID string
	AuthJWKSURL       string
	AuthJWTSecret     string // HS256, local development only
	// Routine planner
	GeminiAPIKey string
	GeminiModel  string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
}

var ErrMissingProjectID = errors.New("FIREBASE_PROJECT_ID is required in release mode")

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		StoreDriver:   strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", ""))),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "skincare"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		DocstoreTable: getEnv("DOCSTORE_TABLE", "documents"),

		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", ""),
		AuthJWTSecret:     getEnv("AUTH_JWT_SECRET", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = inferStoreDriver(cfg)
	}

	if cfg.StoreDriver == StoreMemory {
		log.Println("WARNING: no MONGO_URI or DATABASE_URL set. Using the in-memory store; data is lost on restart.")
	}
	if cfg.FirebaseProjectID == "" {
		// The Firebase key set is shared by every project.
		if cfg.IsRelease() {
			return nil, ErrMissingProjectID
		}
		log.Println("WARNING: FIREBASE_PROJECT_ID is missing. RS256 tokens will be rejected; only AUTH_JWT_SECRET tokens work.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not configured. Routine generation will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func inferStoreDriver(cfg *Config) string {
	switch {
	case cfg.MongoURI != "":
		return StoreMongo
	case cfg.DBUrl != "":
		return StorePostgres
	}
	return StoreMemory
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
