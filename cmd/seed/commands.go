package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/infrastructure/storage/postgres"
	"hobbyshop/internal/infrastructure/storage/postgres/catalog_repo"
	"hobbyshop/internal/retry"
	"hobbyshop/pkg/logger"
)

func newMigrateCmd(env *seedEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert schema migrations",
	}

	var attempts int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := env.setup(cmd.Context())
			if err != nil {
				return err
			}
			policy := retry.Policy{
				MaxRetries: attempts - 1,
				Backoff:    retry.NewBackoff(time.Second, 10*time.Second, true),
			}
			return postgres.RunMigrations(ctx, cfg.Database.DSN, policy)
		},
	}
	up.Flags().IntVar(&attempts, "attempts", 5, "Connection attempts before giving up")

	down := &cobra.Command{
		Use:   "down",
		Short: "Revert every migration (drops all catalog data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := env.setup(cmd.Context())
			if err != nil {
				return err
			}
			return postgres.MigrateDown(ctx, cfg.Database.DSN)
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}

func newDemoCmd(env *seedEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Insert the demo catalog",
		Long:  `Insert the two sample Yu-Gi-Oh items. Running it twice inserts them twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := env.setup(cmd.Context())
			if err != nil {
				return err
			}
			return env.withTx(ctx, cfg, func(ctx context.Context, txm *postgres.TxManager) error {
				repo := catalog_repo.NewItemRepo(txm)
				for _, it := range item.DemoItems() {
					if err := repo.Create(ctx, it); err != nil {
						return fmt.Errorf("insert %q: %w", it.ItemName, err)
					}
					logger.Info(ctx, "demo item inserted", "id", it.ID, "item_name", it.ItemName)
				}
				return nil
			})
		},
	}
}

func newBulkCmd(env *seedEnv) *cobra.Command {
	var count int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Insert synthetic items for load testing",
		Example: `  # Insert 10000 items
  seed bulk --count 10000

  # Reproducible data set
  seed bulk --count 500 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			ctx, cfg, err := env.setup(cmd.Context())
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			items := bulkItems(count, rand.New(rand.NewPCG(seed, seed)))

			return env.withTx(ctx, cfg, func(ctx context.Context, txm *postgres.TxManager) error {
				start := time.Now()
				n, err := postgres.NewBulkLoader(txm).CopyItems(ctx, items)
				if err != nil {
					return err
				}
				logger.Info(ctx, "bulk items inserted", "count", n, "seed", seed, "duration", time.Since(start).String())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 1000, "Number of items to insert")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")

	return cmd
}

var bulkSets = []string{
	"Legend of Blue Eyes White Dragon",
	"Metal Raiders",
	"Spell Ruler",
	"Pharaoh's Servant",
	"Magic Ruler",
}

// bulkItems generates n items that pass validation. Roughly one in ten is
// historical. Category, condition and tag IDs stay within the seeded
// reference rows (1..4).
func bulkItems(n int, r *rand.Rand) []*item.Item {
	items := make([]*item.Item, n)
	for i := range items {
		set := bulkSets[r.IntN(len(bulkSets))]
		price := decimal.New(r.Int64N(100000)+1, -2)
		stock := r.IntN(50)
		historical := r.IntN(10) == 0

		items[i] = &item.Item{
			SetName:     set,
			ItemName:    fmt.Sprintf("Bulk item %06d", i+1),
			Description: fmt.Sprintf("Synthetic %s item.", set),
			Price:       &price,
			Stock:       &stock,
			CategoryID:  id.Ptr(int64(r.IntN(4) + 1)),
			ConditionID: id.Ptr(int64(r.IntN(4) + 1)),
			TagID:       id.Ptr(int64(r.IntN(4) + 1)),
			Historical:  &historical,
		}
	}
	return items
}
