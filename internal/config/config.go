// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	window := cfg.Reconcile.SearchWindowDays
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/matcher"
)

// Config represents the entire application configuration.
type Config struct {
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Localization  LocalizationConfig  `yaml:"localization"`
	Observability ObservabilityConfig `yaml:"observability"`
	Server        ServerConfig        `yaml:"server"`
}

// ReconcileConfig holds the matching and status tunables.
type ReconcileConfig struct {
	SearchWindowDays int     `yaml:"search_window_days"` // days before the expected date
	GracePeriodDays  int     `yaml:"grace_period_days"`  // days after the expected date
	AmountTolerance  float64 `yaml:"amount_tolerance"`   // currency units
}

// MatcherConfig converts the tunables into the matcher's config value.
func (r ReconcileConfig) MatcherConfig() matcher.Config {
	return matcher.Config{
		WindowBeforeDays: r.SearchWindowDays,
		GraceDays:        r.GracePeriodDays,
		AmountTolerance:  decimal.NewFromFloat(r.AmountTolerance),
	}
}

// LocalizationConfig selects the report and note language.
type LocalizationConfig struct {
	Language string `yaml:"language"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RENT_TRACKER_LANG})
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := defaults()
	cfg.Reconcile.SearchWindowDays = getEnvInt("RENT_TRACKER_SEARCH_WINDOW_DAYS", cfg.Reconcile.SearchWindowDays)
	cfg.Reconcile.GracePeriodDays = getEnvInt("RENT_TRACKER_GRACE_PERIOD_DAYS", cfg.Reconcile.GracePeriodDays)
	cfg.Localization.Language = getEnv("RENT_TRACKER_LANG", cfg.Localization.Language)
	cfg.Server.Port = getEnvInt("RENT_TRACKER_PORT", cfg.Server.Port)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func defaults() *Config {
	return &Config{
		Reconcile: ReconcileConfig{
			SearchWindowDays: 7,
			GracePeriodDays:  3,
			AmountTolerance:  0.01,
		},
		Localization: LocalizationConfig{Language: "en"},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
