// Package cli holds the start-up steps shared by the moneytracker commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneytracker/internal/config"
	applog "moneytracker/internal/log"
)

// LoggerOptions picks where and how verbosely to log.
type LoggerOptions struct {
	Level string
	File  string
	Debug bool
	// Fallback receives logs when File is empty. Defaults to stderr.
	Fallback io.Writer
}

// SetupLogger builds the process logger and makes it the slog default.
// The returned close function releases the log file, if one was opened.
func SetupLogger(opts LoggerOptions) (*applog.Logger, func() error, error) {
	level, err := applog.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := opts.Fallback
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f.Close
	}

	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentApp, Output: out})
	applog.SetDefault(logger)
	return logger, closer, nil
}

// LoadEnvFile loads variables from path. With an empty path it tries .env and
// ignores a missing file, which is the normal case outside development.
func LoadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment, applies the
// overrides in order and validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM. Call the
// returned function to stop listening.
func ShutdownContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
