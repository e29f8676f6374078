// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Database
	DatabaseURL string

	// Security
	JWTSecret      string
	BadgeTTLHours  int
	AllowedOrigins []string
	RateLimitRPM   int

	// Redis (for rate limiting & summary caching)
	RedisURL        string
	SummaryCacheTTL int // minutes, 0 disables caching

	// Background cache warming
	CacheWarmInterval int // minutes, 0 disables the worker

	// Narrative summarizer endpoint (optional)
	SummarizerURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		BadgeTTLHours:  getEnvInt("BADGE_TTL_HOURS", 72),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 120),

		RedisURL:        getEnv("REDIS_URL", ""),
		SummaryCacheTTL: getEnvInt("SUMMARY_CACHE_TTL", 5),

		CacheWarmInterval: getEnvInt("CACHE_WARM_INTERVAL", 10),

		SummarizerURL: getEnv("SUMMARIZER_URL", ""),
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		if cfg.JWTSecret == "dev-secret-change-in-production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
