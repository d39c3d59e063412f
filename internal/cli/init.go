// Package cli provides common CLI initialization utilities shared by
// the nexo command entry points.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/tyha2404/nexo-app/internal/config"
	applog "github.com/tyha2404/nexo-app/internal/log"
	"github.com/tyha2404/nexo-app/internal/session"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.Config{
		Level: logLevelFromEnv(),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// InitSessionStore opens the durable session store at the given path.
// Returns the store or exits the process on failure.
func InitSessionStore(logger *applog.Logger, dbPath string) *session.Store {
	store, err := session.NewStore(dbPath, logger.WithComponent(applog.ComponentSession))
	if err != nil {
		logger.Error("Failed to initialize session store", applog.FieldError, err.Error(), applog.FieldPath, dbPath)
		os.Exit(1)
	}
	return store
}

func logLevelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
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
