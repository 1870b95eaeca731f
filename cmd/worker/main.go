// Package main is the entry point for the hobbyshop background worker.
// It relays item change events from the outbox to Kafka and cleans up
// expired bookkeeping rows.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hobbyshop/internal/config"
	"hobbyshop/internal/infrastructure/events"
	"hobbyshop/internal/infrastructure/storage/postgres"
	"hobbyshop/pkg/logger"
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
		Service:     "hobbyshop-worker",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.DSN == "" {
		log.Fatal("DATABASE_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting hobbyshop worker", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.ApplicationName = "hobbyshop-worker"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	publisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka))
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close kafka writer", "error", err)
		}
	}()

	relayCfg := postgres.DefaultRelayConfig()
	relayCfg.BatchSize = cfg.Outbox.BatchSize
	relayCfg.MaxRetries = cfg.Outbox.MaxRetries

	worker := NewWorker(
		postgres.NewOutboxRelay(txm, publisher, relayCfg),
		postgres.NewIdempotencyStore(txm, cfg.Idempotency.TTL),
		cfg.Outbox,
		log,
	)
	worker.Run(ctx)

	log.Info("worker stopped")
}
