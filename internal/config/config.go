// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all runtime configuration for the budget service.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// Backend selects the persistence gateway implementation.
	Backend string
	// SQLiteDBPath is the database file path for the sqlite backend.
	SQLiteDBPath string

	// AMQPURL enables the expense event feed when non-empty.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// ArchivePath is where the worker appends its JSONL event archive.
	ArchivePath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &Config{
		Port:         port,
		Backend:      getEnv("BUDGET_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget.expense-events"),
		ArchivePath:  getEnv("ARCHIVE_PATH", "./data/expense-events.jsonl"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Backend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLITE_DB_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			return fmt.Errorf("AMQP_EXCHANGE is required when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			return fmt.Errorf("AMQP_QUEUE is required when AMQP_URL is set")
		}
	}
	return nil
}

// EventsEnabled reports whether the event feed should be started.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
