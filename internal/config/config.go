package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	MaxFileSize int64 // in bytes
	// HistoryLimit is the default number of records a history listing returns.
	HistoryLimit int
	// HistoryRetention is how long history records are kept.
	HistoryRetention time.Duration
	// CompareBaselines adds zstd and xz rows to every comparison.
	CompareBaselines bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("GO_ENV", "development"),
		MaxFileSize:      int64(getEnvInt("MAX_FILE_SIZE", 50*1024*1024)), // 50MB default
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 50),
		HistoryRetention: time.Duration(getEnvInt("HISTORY_RETENTION_DAYS", 30)) * 24 * time.Hour,
		CompareBaselines: getEnvBool("COMPARE_BASELINES", false),
	}

	return cfg
}

// IsProduction reports whether GO_ENV selects production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt is getEnv for positive integers; anything else yields the default.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
