package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfb-pickem/app"
	"cfb-pickem/config"
	"cfb-pickem/logging"
	"cfb-pickem/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	cfg.LogConfiguration()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, app.Options{FallbackToMemory: cfg.IsDevelopment()})
	if err != nil {
		logging.Fatalf("Startup failed: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logging.Errorf("Error closing storage: %v", err)
		}
	}()

	// Warm the catalog; the games endpoint refreshes again on demand
	if report, err := application.Loader.RefreshWeek(ctx); err != nil {
		logging.Warnf("Initial refresh failed: %v", err)
	} else {
		logging.Infof("Initial refresh: %d fetched, %d inserted", report.Fetched, report.Ingest.Inserted)
	}

	updater := services.NewBackgroundUpdater(application.Loader, cfg.Feed.PollInterval)
	updater.Start(ctx)
	defer updater.Stop()

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           application.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logging.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Graceful shutdown failed: %v", err)
	}
	logging.Info("Server stopped")
}
