// Package main is the entry point for the hobbyshop catalog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hobbyshop/internal/config"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	v1 "hobbyshop/internal/infrastructure/http/v1"
	"hobbyshop/internal/infrastructure/http/v1/handlers"
	"hobbyshop/internal/infrastructure/http/v1/middleware"
	"hobbyshop/internal/infrastructure/telemetry"
	"hobbyshop/pkg/logger"
)

const (
	appName = "hobbyshop"
	version = "0.1.0"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Service:     appName,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Infow("starting hobbyshop server", "version", version, "env", cfg.Server.Env)

	providers, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warnw("telemetry shutdown", "error", err)
		}
	}()

	st, err := openStore(ctx, cfg, providers)
	if err != nil {
		return err
	}
	defer st.Close()

	resolver, err := reference.LoadResolver(ctx, st.references, st.txm)
	if err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	manager := item.NewManager(st.items, st.txm, item.NewQueryEngine(st.items, st.txm))
	for _, hook := range st.hooks {
		manager.Hooks().OnAfterChange(hook)
	}
	itemMetrics, err := telemetry.NewItemMetrics(providers.Meter("hobbyshop/item"))
	if err != nil {
		return fmt.Errorf("register item metrics: %w", err)
	}
	manager.Hooks().OnAfterChange(itemMetrics.Record)

	routerCfg := v1.RouterConfig{
		Logger:   log,
		Manager:  manager,
		Resolver: resolver,
		History:  st.history,
		Health:   handlers.NewHealthHandler(appName, version, st.pool, st.ping),
		Metrics:  providers.MetricsHandler,
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.Server.RateLimitRPS,
			Burst: cfg.Server.RateLimitBurst,
		},
		Debug: cfg.Server.IsDevelopment(),
	}
	if cfg.Idempotency.Enabled {
		routerCfg.Idempotency = st.idempotency
	}
	router := v1.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      otelhttp.NewHandler(router, appName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", server.Addr, "store", st.kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
