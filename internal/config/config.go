// Package config provides configuration management for Scoutline.
// It loads settings from environment variables with the SCOUTLINE_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration settings for the Scoutline application.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Agent   AgentConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port         int    // Server port (default: 7171)
	Host         string // Server host (default: 127.0.0.1)
	EnableEvents bool   // Expose the /ws live event feed (default: true)
}

// StorageConfig contains session persistence configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: memory, sqlite, postgres (default: sqlite)
	DataPath      string // Path to the data directory for sqlite (default: ./data)
	PostgresDSN   string // Connection string, required when StorageEngine is postgres
}

// SessionConfig contains session engine configuration.
type SessionConfig struct {
	SessionID string // Session identifier (default: default)
	LedgerCap int    // Interaction ledger capacity (default: 500)
}

// AgentConfig contains sourcing agent configuration.
type AgentConfig struct {
	RatePerSecond float64 // Entity scoring rate (default: 2)
	Burst         int     // Rate limiter burst size (default: 4)
	AutoSkipBelow int     // Record a SKIP for scores below this; 0 disables (default: 0)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the SCOUTLINE_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SCOUTLINE_PORT", 7171),
			Host:         getEnv("SCOUTLINE_HOST", "127.0.0.1"),
			EnableEvents: getEnvBool("SCOUTLINE_ENABLE_EVENTS", true),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("SCOUTLINE_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("SCOUTLINE_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("SCOUTLINE_POSTGRES_DSN", ""),
		},
		Session: SessionConfig{
			SessionID: getEnv("SCOUTLINE_SESSION_ID", "default"),
			LedgerCap: getEnvInt("SCOUTLINE_LEDGER_CAP", 500),
		},
		Agent: AgentConfig{
			RatePerSecond: getEnvFloat("SCOUTLINE_AGENT_RATE", 2),
			Burst:         getEnvInt("SCOUTLINE_AGENT_BURST", 4),
			AutoSkipBelow: getEnvInt("SCOUTLINE_AGENT_AUTO_SKIP_BELOW", 0),
		},
	}, nil
}

// Validate checks the configuration for values no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Storage.StorageEngine {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage engine %q (want memory, sqlite, or postgres)", c.Storage.StorageEngine)
	}
	if c.Storage.StorageEngine == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres storage engine requires SCOUTLINE_POSTGRES_DSN")
	}
	if c.Storage.StorageEngine == "sqlite" && c.Storage.DataPath == "" {
		return fmt.Errorf("sqlite storage engine requires a data path")
	}
	if c.Session.SessionID == "" {
		return fmt.Errorf("session ID must not be empty")
	}
	if c.Session.LedgerCap < 1 {
		return fmt.Errorf("ledger capacity must be >= 1, got %d", c.Session.LedgerCap)
	}
	if c.Agent.RatePerSecond <= 0 {
		return fmt.Errorf("agent rate must be > 0, got %v", c.Agent.RatePerSecond)
	}
	if c.Agent.Burst < 1 {
		return fmt.Errorf("agent burst must be >= 1, got %d", c.Agent.Burst)
	}
	if c.Agent.AutoSkipBelow < 0 || c.Agent.AutoSkipBelow > 100 {
		return fmt.Errorf("auto-skip threshold must be in [0, 100], got %d", c.Agent.AutoSkipBelow)
	}
	return nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as a float,
// it returns the default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false (case-insensitive).
// If the environment variable exists but cannot be parsed as a boolean,
// it returns the default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
