package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Source   SourceConfig
	Cache    CacheConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// SourceConfig holds the default holdings data source reference.
// The values act as a fallback until a source configuration is saved through
// the API; the saved configuration takes precedence.
type SourceConfig struct {
	SpreadsheetURL string
	WorksheetGID   string
}

// CacheConfig holds dataset cache behaviour
type CacheConfig struct {
	TTL             time.Duration
	RefreshSchedule string // cron expression for the background refresh job
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttlSeconds, err := strconv.Atoi(getEnv("DATASET_CACHE_TTL_SECONDS", "900"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATASET_CACHE_TTL_SECONDS: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/holdings_dashboard.db"),
		},
		Source: SourceConfig{
			SpreadsheetURL: getEnv("SHEET_URL", ""),
			WorksheetGID:   getEnv("SHEET_GID", "0"),
		},
		Cache: CacheConfig{
			TTL:             time.Duration(ttlSeconds) * time.Second,
			RefreshSchedule: getEnv("DATASET_REFRESH_SCHEDULE", "@every 15m"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
