// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/rashodomer, cmd/rashodomer-worker, and cmd/adduser.
package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/artempelyovin/rashodomer-be/internal/backend"
	"github.com/artempelyovin/rashodomer-be/internal/config"
	applog "github.com/artempelyovin/rashodomer-be/internal/log"
)

// SetupLogger initializes structured logging with the configured level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	level, _ := cfg.SlogLevel()
	logger := applog.New(applog.Config{Level: level, Component: component})
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
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the storage backend described by cfg.
// Returns the store and its cleanup function, or exits the process on failure.
func OpenStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.Result {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return result
}

// ReadPassword prompts for a password on the terminal without echoing it.
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
