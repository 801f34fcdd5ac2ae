package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	UploadDir     string
	SessionSecret string
	SessionTTL    time.Duration
	AllowedExts   []string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	ttlStr := getEnv("SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttlStr, err)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	exts := strings.Split(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg"), ",")
	for i, ext := range exts {
		exts[i] = strings.ToLower(strings.TrimSpace(ext))
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./access.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "./static/uploads"),
		SessionSecret: secret,
		SessionTTL:    ttl,
		AllowedExts:   exts,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
