package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hobbyshop/internal/config"
	"hobbyshop/internal/infrastructure/storage/postgres"
	"hobbyshop/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Prepare a hobbyshop database",
		Long: `Seed applies schema migrations and loads catalog data into the
PostgreSQL database named by DATABASE_URL.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (defaults to CONFIG_PATH or config.yaml)")

	env := &seedEnv{configPath: &configPath}
	cmd.AddCommand(newMigrateCmd(env))
	cmd.AddCommand(newDemoCmd(env))
	cmd.AddCommand(newBulkCmd(env))

	return cmd
}

// seedEnv resolves configuration lazily, after flags and .env are loaded.
type seedEnv struct {
	configPath *string
}

func (e *seedEnv) load() (*config.Config, error) {
	if *e.configPath != "" {
		return config.Load(*e.configPath)
	}
	return config.LoadConfig()
}

// setup loads config, installs the logger in ctx and requires a DSN.
func (e *seedEnv) setup(ctx context.Context) (context.Context, *config.Config, error) {
	cfg, err := e.load()
	if err != nil {
		return ctx, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.DSN == "" {
		return ctx, nil, fmt.Errorf("DATABASE_URL is required")
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Service:     "hobbyshop-seed",
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("init logger: %w", err)
	}
	return logger.WithLogger(ctx, log.WithComponent("seed")), cfg, nil
}

// withTx opens a pool and runs fn inside one transaction.
func (e *seedEnv) withTx(ctx context.Context, cfg *config.Config, fn func(ctx context.Context, txm *postgres.TxManager) error) error {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.ApplicationName = "hobbyshop-seed"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx, txm)
	})
}
