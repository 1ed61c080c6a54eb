package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/mmynk/larder/internal/auth"
	"github.com/mmynk/larder/internal/config"
	"github.com/mmynk/larder/internal/middleware"
	"github.com/mmynk/larder/internal/service"
	"github.com/mmynk/larder/internal/storage/sqlstore"
	"github.com/mmynk/larder/pkg/database"
	"github.com/mmynk/larder/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	port := flag.Int("port", 0, "listen port (overrides PORT)")
	envFile := flag.String("env", ".env", "optional env file")
	export := flag.String("export", "", "dump a table as JSON to stdout and exit: food-items or shopping-list")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	if err := run(cfg, logger, *export); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, export string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	store, err := sqlstore.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return err
	}
	defer store.Close()

	if export != "" {
		return exportTable(ctx, store, export)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(pool.DB(), "larder"),
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:      rate.Limit(cfg.AuthRateLimit),
		Burst:     cfg.AuthRateBurst,
		ExpiresIn: 10 * time.Minute,
	})

	handler := service.NewHandler(service.Options{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store, cfg.BcryptCost),
		JWTManager:    jwtManager,
		Logger:        logger,
		Registry:      registry,
		AuthLimiter:   limiter,
		CORSOrigin:    cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		// h2c serves HTTP/2 without TLS alongside HTTP/1.1
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func exportTable(ctx context.Context, store *sqlstore.Store, table string) error {
	var (
		rows []database.Row
		err  error
	)
	switch table {
	case "food-items":
		rows, err = store.AllFoodItems(ctx)
	case "shopping-list":
		rows, err = store.AllShoppingItems(ctx)
	default:
		return fmt.Errorf("unknown export %q: want food-items or shopping-list", table)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
