// Package config loads application-wide configuration from the environment.
package config

import (
	"os"

	"spscan/logging"
)

// AppConfig holds application-wide system configuration. Scan behavior is
// configured per run via command-line flags, not here.
type AppConfig struct {
	TenantURL string
	DBPath    string
	Logging   *logging.Config
}

// LoadAppConfigFromEnv loads application configuration from environment
// variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		TenantURL: getEnvWithDefault("SP_TENANT_URL", ""),
		DBPath:    getEnvWithDefault("SPSCAN_DB_PATH", ""),
		Logging:   LoadLoggingConfigFromEnv(),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment
// variables. The default format is text so console output stays readable.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "text"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stderr"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
