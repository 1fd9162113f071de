package config

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the pdca-coach binaries. The relay
// and the terminal client read different subsets of it.
type Config struct {
	// Relay settings
	Port int

	// Upstream provider settings
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	CoachModel      string
	UpstreamTimeout time.Duration // zero means transport defaults

	// Client settings
	CoachServerURL string // empty enables offline mode
	DBPath         string
	ExportDir      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		CoachModel:      getEnv("COACH_MODEL", "deepseek-chat"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 0)) * time.Second,
		CoachServerURL:  os.Getenv("COACH_SERVER_URL"),
		DBPath:          getEnv("PDCA_DB_PATH", "pdca.db"),
		ExportDir:       getEnv("PDCA_EXPORT_DIR", "."),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the configuration. The upstream credential is
// deliberately not required at startup: its absence is reported
// per-request by the relay so the service boots and answers with a
// configuration hint instead of refusing to start.
func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DeepSeekBaseURL == "" {
		return fmt.Errorf("DEEPSEEK_BASE_URL must not be empty")
	}
	if c.CoachModel == "" {
		return fmt.Errorf("COACH_MODEL must not be empty")
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must not be negative")
	}
	if c.DeepSeekAPIKey == "" {
		log.Printf("Warning: DEEPSEEK_API_KEY not set, relay will reject coaching requests")
	}
	return nil
}

// HTTPClient returns the upstream HTTP client, honoring the configured
// timeout when one is set.
func (c *Config) HTTPClient() *http.Client {
	if c.UpstreamTimeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: c.UpstreamTimeout}
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
