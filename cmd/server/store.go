package main

import (
	"context"
	"fmt"
	"time"

	"hobbyshop/internal/config"
	"hobbyshop/internal/core/idempotency"
	"hobbyshop/internal/core/tx"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/infrastructure/http/v1/handlers"
	"hobbyshop/internal/infrastructure/storage/memory"
	"hobbyshop/internal/infrastructure/storage/postgres"
	"hobbyshop/internal/infrastructure/storage/postgres/catalog_repo"
	"hobbyshop/internal/infrastructure/telemetry"
	"hobbyshop/internal/retry"
	"hobbyshop/pkg/logger"
)

// store bundles the persistence collaborators the server runs on.
type store struct {
	kind        string
	txm         tx.Manager
	items       item.Repository
	references  reference.Repository
	idempotency idempotency.Store
	history     handlers.HistoryReader
	hooks       []domain.Hook[*item.Change]
	pool        *postgres.Pool
	ping        func(ctx context.Context) error
	close       func()
}

// Close releases the store's resources.
func (s *store) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStore connects to PostgreSQL when a DSN is configured and falls back
// to the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, providers *telemetry.Providers) (*store, error) {
	if cfg.Database.DSN == "" {
		return openMemoryStore(ctx, cfg), nil
	}
	return openPostgresStore(ctx, cfg, providers)
}

func openMemoryStore(ctx context.Context, cfg *config.Config) *store {
	ms := memory.NewStore()
	if cfg.Database.DemoItems {
		ms.Insert(item.DemoItems()...)
	}
	logger.Warn(ctx, "DATABASE_URL not set, using in-memory store", "demo_items", cfg.Database.DemoItems)

	repo := memory.NewItemRepo(ms)
	return &store{
		kind:        "memory",
		txm:         memory.NewTxManager(ms),
		items:       repo,
		references:  memory.NewReferenceRepo(ms),
		idempotency: memory.NewIdempotencyStore(cfg.Idempotency.TTL),
		ping:        ms.Ping,
	}
}

func openPostgresStore(ctx context.Context, cfg *config.Config, providers *telemetry.Providers) (*store, error) {
	if cfg.Database.MigrateOnStart {
		// The database may still be starting; every failure is retried.
		policy := retry.Policy{
			MaxRetries: cfg.Database.MigrateAttempts - 1,
			Backoff:    retry.NewBackoff(time.Second, 10*time.Second, true),
		}
		if err := postgres.RunMigrations(ctx, cfg.Database.DSN, policy); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.RegisterPoolMetrics(providers.Meter("hobbyshop/db"), pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}
	postgres.LogPoolStats(ctx, pool.Pool)

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	audit, err := postgres.NewAuditService(txm)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init audit: %w", err)
	}
	recorder := postgres.NewChangeRecorder(audit, postgres.NewOutboxPublisher(txm))

	return &store{
		kind:        "postgres",
		txm:         txm,
		items:       catalog_repo.NewItemRepo(txm),
		references:  catalog_repo.NewReferenceRepo(txm),
		idempotency: postgres.NewIdempotencyStore(txm, cfg.Idempotency.TTL),
		history:     audit,
		hooks:       []domain.Hook[*item.Change]{recorder.Record},
		pool:        pool,
		close:       pool.Close,
	}, nil
}
