// Package cli holds the process bootstrap shared by the server binary:
// environment loading, logging and the optional backing services.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	"expensetracker/internal/events"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and makes it the default.
func SetupLogger(cfg *config.Config) *log.Logger {
	c := log.DefaultConfig()
	c.Level = log.ParseLevel(cfg.LogLevel)
	c.Format = cfg.LogFormat
	logger := log.New(c)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenSessionStore returns the session store selected by cfg.
func OpenSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionSQLite:
		store, err := session.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store %s: %w", cfg.SQLiteDBPath, err)
		}
		return store, nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// OpenPublisher returns the AMQP activity publisher, or a no-op one when
// AMQP is not configured or the broker cannot be reached at startup.
func OpenPublisher(cfg *config.Config, logger *log.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, activity events disabled")
		return events.Noop{}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Warn("AMQP unavailable, activity events disabled",
			log.FieldError, err,
			"exchange", cfg.AMQPExchange)
		return events.Noop{}
	}
	logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange)
	return pub
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
