package main

import (
	"context"
	"time"

	"hobbyshop/internal/config"
	"hobbyshop/pkg/logger"
)

// Relay is the outbox side of the worker.
type Relay interface {
	ProcessBatch(ctx context.Context) (int, error)
	MoveToDLQ(ctx context.Context) (int64, error)
	PurgePublished(ctx context.Context, age time.Duration) (int64, error)
}

// KeyCleaner removes expired idempotency keys.
type KeyCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// Worker polls the outbox and runs periodic cleanup.
type Worker struct {
	relay   Relay
	keys    KeyCleaner
	cfg     config.OutboxConfig
	log     *logger.Logger
	cleanup time.Duration
}

// NewWorker creates a new worker.
func NewWorker(relay Relay, keys KeyCleaner, cfg config.OutboxConfig, log *logger.Logger) *Worker {
	return &Worker{
		relay:   relay,
		keys:    keys,
		cfg:     cfg,
		log:     log.WithComponent("worker"),
		cleanup: time.Hour,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	dlqInterval := w.cfg.DLQInterval
	if dlqInterval <= 0 {
		dlqInterval = time.Minute
	}
	dlqTicker := time.NewTicker(dlqInterval)
	defer dlqTicker.Stop()

	cleanupTicker := time.NewTicker(w.cleanup)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainOutbox(ctx)
		case <-dlqTicker.C:
			w.moveToDLQ(ctx)
		case <-cleanupTicker.C:
			w.purge(ctx)
		}
	}
}

// drainOutbox processes full batches back to back until the outbox has
// no due messages left.
func (w *Worker) drainOutbox(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.relay.ProcessBatch(ctx)
		if err != nil {
			w.log.Errorw("outbox batch failed", "error", err)
			return
		}
		if n > 0 {
			w.log.Debugw("relayed outbox batch", "count", n)
		}
		if n < w.cfg.BatchSize {
			return
		}
	}
}

func (w *Worker) moveToDLQ(ctx context.Context) {
	n, err := w.relay.MoveToDLQ(ctx)
	if err != nil {
		w.log.Errorw("failed to move messages to DLQ", "error", err)
		return
	}
	if n > 0 {
		w.log.Warnw("moved failed outbox messages to DLQ", "count", n)
	}
}

func (w *Worker) purge(ctx context.Context) {
	if w.cfg.PurgeAfter > 0 {
		n, err := w.relay.PurgePublished(ctx, w.cfg.PurgeAfter)
		if err != nil {
			w.log.Errorw("failed to purge published messages", "error", err)
		} else if n > 0 {
			w.log.Infow("purged published outbox messages", "count", n)
		}
	}

	n, err := w.keys.CleanupExpired(ctx)
	if err != nil {
		w.log.Errorw("failed to clean up idempotency keys", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}
