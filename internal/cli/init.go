// Package cli holds the startup plumbing shared by cmd/budget and
// cmd/budget-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/robertorzech/budget/internal/config"
	"github.com/robertorzech/budget/internal/ledger"
	"github.com/robertorzech/budget/internal/log"
	"github.com/robertorzech/budget/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = parseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnvFile loads the .env file for local development. Missing files
// are fine in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads and validates configuration, exiting the process on
// failure.
func LoadConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration invalid", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the persistence gateway selected by the
// configuration, exiting the process on failure.
func OpenStore(logger *log.Logger, cfg *config.Config) ledger.Store {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Info("Using in-memory store", log.FieldBackend, cfg.Backend)
		return storage.NewMemoryStore()
	default:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store",
				log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Using SQLite store",
			log.FieldBackend, cfg.Backend, "path", cfg.SQLiteDBPath)
		return store
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownTimeout bounds how long graceful shutdown may take.
const ShutdownTimeout = 10 * time.Second
