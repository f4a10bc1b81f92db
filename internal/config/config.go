// Package config provides environment-based configuration for fitsview.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultDPI  = 300
	DefaultPath = "detection_images/detection_chi2pos_SWLW_A1.fits"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // console, json (default: console)
	DPI       int    // default: 300
	Path      string // FITS file inspected when no argument is given
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validLogFormats = []string{"console", "json"}

// Load reads configuration from environment variables, with .env file as optional override.
func Load() (*Config, error) {
	// Try to load .env file (ignore if not found)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getEnv("FITSVIEW_LOG_LEVEL", "info"),
		LogFormat: getEnv("FITSVIEW_LOG_FORMAT", "console"),
		DPI:       getPositiveIntEnv("FITSVIEW_DPI", DefaultDPI),
		Path:      getEnv("FITSVIEW_PATH", DefaultPath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.LogLevel, validLogLevels)
	}

	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.LogFormat, validLogFormats)
	}

	if c.DPI <= 0 {
		return fmt.Errorf("invalid DPI %d: must be positive", c.DPI)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getPositiveIntEnv falls back to defaultValue when the variable is unset,
// not a number or not positive.
func getPositiveIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
