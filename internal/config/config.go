package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	ElasticURL  string
	JWTSecret   string

	TokenDuration time.Duration

	// Background jobs
	SyncInterval        time.Duration
	DLQRetryInterval    time.Duration
	StatusSweepInterval time.Duration

	SeedDemoData bool
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("POSTGRES_DSN", ""),
		ElasticURL:  getEnv("ELASTIC_URL", "http://localhost:9200"),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		TokenDuration: getDurationEnv("TOKEN_DURATION", 7*24*time.Hour),

		SyncInterval:        getDurationEnv("SYNC_INTERVAL", time.Second),
		DLQRetryInterval:    getDurationEnv("DLQ_RETRY_INTERVAL", 30*time.Second),
		StatusSweepInterval: getDurationEnv("STATUS_SWEEP_INTERVAL", time.Minute),

		SeedDemoData: getBoolEnv("SEED_DEMO_DATA", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if defaultValue == "" {
		log.Fatalf("Environment variable %s is required", key)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %v", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: Invalid duration value for %s, using default %v", key, defaultValue)
	}
	return defaultValue
}
