/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the word catalog
override file, and the idle-room reaping policy.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// WordFile optionally points to a newline-separated word list that replaces
	// the embedded catalog.
	WordFile string

	// RoomTTL is how long a room may sit without any attached connection before
	// it is reaped. Zero disables reaping, leaving rooms alive for the process
	// lifetime.
	RoomTTL time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// A .env file is honored when present (development convenience). Defaults are
// provided for every item and necessary type conversions and validation are performed.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Word Catalog Settings ---
	cfg.WordFile = os.Getenv("WORD_FILE")

	// --- Room Reaping Settings ---
	ttlStr := os.Getenv("ROOM_TTL")
	if ttlStr == "" {
		cfg.RoomTTL = 0
	} else {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ROOM_TTL environment variable: %w", err)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("ROOM_TTL must not be negative, got %s", ttl)
		}
		cfg.RoomTTL = ttl
	}

	return cfg, nil
}
