package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	TokenTTL      time.Duration
	SweepSchedule string // cron spec for the expired-token sweep; empty disables it
	CORSOrigin    string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("TOKEN_TTL_MINUTES", "5")
	ttlMinutes, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./usuarios.db"),
		TokenTTL:      time.Duration(ttlMinutes) * time.Minute,
		SweepSchedule: getEnv("TOKEN_SWEEP_SCHEDULE", ""),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
