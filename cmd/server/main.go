package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thali-menu/api/internal/catalog"
	"github.com/thali-menu/api/internal/config"
	"github.com/thali-menu/api/internal/metrics"
	"github.com/thali-menu/api/internal/router"
	"github.com/thali-menu/api/internal/service"
	"github.com/thali-menu/api/internal/ws"
	"github.com/thali-menu/api/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if os.Getenv("APP_ENV") != "production" {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
	}
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, closeProvider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	m := metrics.New()
	hub := ws.NewHub()
	go hub.Run(ctx)

	sessions := service.NewSessionService(provider, hub, m, cfg.SessionSecret, cfg.SessionTTL)
	go sessions.RunReaper(ctx, cfg.SessionTTL/2)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, sessions, hub, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProvider picks Postgres when DATABASE_URL is set, then CATALOG_PATH,
// then the bundled sample catalog.
func newProvider(ctx context.Context, cfg *config.Config) (catalog.Provider, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := catalog.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Serving catalog from Postgres")
		return catalog.NewPostgresProvider(pool), pool.Close, nil
	case cfg.CatalogPath != "":
		slog.Info("Serving catalog from file", "path", cfg.CatalogPath)
		return catalog.NewJSONFileProvider(cfg.CatalogPath), func() {}, nil
	default:
		slog.Info("Serving bundled sample catalog")
		return catalog.NewSampleProvider(), func() {}, nil
	}
}
