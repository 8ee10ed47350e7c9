package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database (deal drafts, audits, notifications)
	DatabaseURL string

	// Session store
	RedisURL string

	// Upstream brokerage core API
	CoreAPIURL            string
	CoreAPITimeoutSeconds int
	CoreAPIServiceToken   string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Background workers
	WorkerCount int

	// Reference data cache
	FilterRefreshMinutes int

	// Draft retention
	DraftTTLHours int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		CoreAPIURL:            getEnv("CORE_API_URL", ""),
		CoreAPITimeoutSeconds: getEnvAsInt("CORE_API_TIMEOUT_SECONDS", 30),
		CoreAPIServiceToken:   getEnv("CORE_API_SERVICE_TOKEN", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTExpirationHours:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		WorkerCount:           getEnvAsInt("WORKER_COUNT", 5),
		FilterRefreshMinutes:  getEnvAsInt("FILTER_REFRESH_MINUTES", 15),
		DraftTTLHours:         getEnvAsInt("DRAFT_TTL_HOURS", 72),
		AllowedOrigins:        getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:          getEnv("RESEND_API_KEY", ""),
		FromEmail:             getEnv("FROM_EMAIL", "noreply@dealdesk.app"),
		SentryDSN:             getEnv("SENTRY_DSN", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.CoreAPIURL == "" {
		return nil, fmt.Errorf("CORE_API_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
