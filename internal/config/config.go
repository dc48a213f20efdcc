package config

import (
	"fmt"
	"os"
	"strconv"

	"tabclass/internal/errors"
	"tabclass/internal/partition"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pipeline PipelineConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// reports in memory.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// Enabled reports whether a report database was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

// PipelineConfig holds dataset preparation and tuning settings
type PipelineConfig struct {
	Seed            int64
	TestFraction    float64
	HoldoutFraction float64
	ValidationShare float64
	MaxBalancedRows int
	TunerWorkers    int
}

// SplitOptions converts the pipeline settings into partition options
func (p PipelineConfig) SplitOptions() partition.Options {
	return partition.Options{
		TestFraction:    p.TestFraction,
		HoldoutFraction: p.HoldoutFraction,
		ValidationShare: p.ValidationShare,
		Seed:            p.Seed,
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: *loadDatabaseConfig(),
		Server:   *loadServerConfig(),
		Pipeline: *loadPipelineConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{SSLMode: "disable"},
		Server:   ServerConfig{Port: "8080", GinMode: "release", MaxUploadMB: 32},
		Pipeline: PipelineConfig{Seed: 42, TestFraction: 0.2, HoldoutFraction: 0.3, ValidationShare: 0.5, MaxBalancedRows: 1000000, TunerWorkers: 1},
		LogLevel: "INFO",
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:     os.Getenv("DATABASE_URL"),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 32),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Seed:            int64(getEnvIntOrDefault("SPLIT_SEED", 42)),
		TestFraction:    getEnvFloatOrDefault("TEST_FRACTION", 0.2),
		HoldoutFraction: getEnvFloatOrDefault("HOLDOUT_FRACTION", 0.3),
		ValidationShare: getEnvFloatOrDefault("VALIDATION_SHARE", 0.5),
		MaxBalancedRows: getEnvIntOrDefault("MAX_BALANCED_ROWS", 1000000),
		TunerWorkers:    getEnvIntOrDefault("TUNER_WORKERS", 1),
	}
}

func validateConfig(config *Config) error {
	p := config.Pipeline
	for name, f := range map[string]float64{
		"TEST_FRACTION":    p.TestFraction,
		"HOLDOUT_FRACTION": p.HoldoutFraction,
		"VALIDATION_SHARE": p.ValidationShare,
	} {
		if f <= 0 || f >= 1 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be between 0 and 1, got %v", name, f))
		}
	}
	if p.MaxBalancedRows < 0 {
		return errors.ConfigInvalid("MAX_BALANCED_ROWS must not be negative")
	}
	if p.TunerWorkers < 1 {
		return errors.ConfigInvalid("TUNER_WORKERS must be at least 1")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
