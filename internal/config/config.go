// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"papertrade/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// RedisAddr is optional; when empty, sessions live in process memory
	// and quotes are not cached.
	RedisAddr     string
	RedisPassword string

	SessionTTL time.Duration

	QuoteAPIURL string
	QuoteAPIKey string
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first if one exists.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // Best effort; env vars win in production.

	serverPort := envOr("SERVER_PORT", "8080")

	dbPortStr := envOr("DB_PORT", "5432")
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	sessionTTL := 24 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		sessionTTL, err = time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     envOr("DB_USER", "user"),
			Password: envOr("DB_PASSWORD", "password"),
			DBName:   envOr("DB_NAME", "papertrade"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionTTL:    sessionTTL,
		QuoteAPIURL:   envOr("QUOTE_API_URL", "https://quote.example.com"),
		QuoteAPIKey:   os.Getenv("QUOTE_API_KEY"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
