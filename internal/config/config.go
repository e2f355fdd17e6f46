// Package config centralises configuration parsing for the fitcoach binaries.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config captures runtime configuration for the client CLI.
type Config struct {
	APIBaseURL  string
	SessionPath string
	HTTPTimeout time.Duration
}

// StubConfig captures runtime configuration for the development stub server.
type StubConfig struct {
	HTTPAddress string
	JWTSecret   string
	JWTIssuer   string
	TokenTTL    time.Duration
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() Config {
	return Config{
		APIBaseURL:  getEnv("FITCOACH_API_URL", "http://localhost:8080"),
		SessionPath: getEnv("FITCOACH_SESSION_PATH", defaultSessionPath()),
		HTTPTimeout: getDurationEnv("FITCOACH_HTTP_TIMEOUT", 10*time.Second),
	}
}

// LoadStub reads environment variables into StubConfig.
func LoadStub() StubConfig {
	return StubConfig{
		HTTPAddress: getEnv("HTTP_ADDRESS", ":8080"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "fitcoach.stub"),
		TokenTTL:    getDurationEnv("TOKEN_TTL", 8*time.Hour),
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fitcoach-session.db"
	}
	return filepath.Join(home, ".fitcoach", "session.db")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
