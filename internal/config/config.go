package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort          int
	DatabasePath        string
	JWTSecretKey        string
	JWTAlgorithm        string
	AccessTokenExpires  int // minutes
	MaintenanceSchedule string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file is read first outside of production, matching local dev setups.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	portStr := getEnv("PORT", "8000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be set")
	}

	alg := getEnv("JWT_ALGORITHM", "HS256")
	switch alg {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", alg)
	}

	expiresStr := getEnv("ACCESS_TOKEN_EXPIRES_MINUTES", "30")
	expires, err := strconv.Atoi(expiresStr)
	if err != nil || expires <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRES_MINUTES %q", expiresStr)
	}

	return &Config{
		ServerPort:          port,
		DatabasePath:        getEnv("DATABASE_PATH", "./wishlist.db"),
		JWTSecretKey:        secret,
		JWTAlgorithm:        alg,
		AccessTokenExpires:  expires,
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@hourly"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
