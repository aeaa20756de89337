package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Document store (REST backend)
	StoreURL      string
	StoreToken    string
	StoreDatabase string

	// Legacy tabular backend; takes precedence over StoreURL when set
	DatabaseURL string

	// Auth
	JWTSecret          string
	JWTExpirationHours int
	AdminPasswordHash  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		StoreURL:           getEnv("STORE_URL", ""),
		StoreToken:         getEnv("STORE_TOKEN", ""),
		StoreDatabase:      getEnv("STORE_DATABASE", "keiko"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
