package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/api"
	"expensetracker/internal/cache"
	"expensetracker/internal/cli"
	"expensetracker/internal/events"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	store, err := cli.OpenSessionStore(cfg)
	if err != nil {
		logger.Error("Failed to open session store", log.FieldError, err, "backend", cfg.SessionBackend)
		os.Exit(1)
	}
	defer store.Close()

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SecureCookies,
	}, logger)

	notifier := events.NewNotifier(cli.OpenPublisher(cfg, logger), logger)
	defer notifier.Close()

	expenses := apphttp.DefaultExpenseCache()
	caches := cache.NewManager(logger)
	caches.Register(expenses)

	client := api.New(api.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		API:                client,
		Sessions:           sessions,
		Expenses:           expenses,
		Events:             notifier,
		AnalyticsSource:    cfg.AnalyticsSource,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expense tracker",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"backend_url", cfg.BackendURL,
			"session_backend", cfg.SessionBackend,
			"analytics_source", cfg.AnalyticsSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.Sweep(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		caches.Run(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		srv.RunBackground(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
