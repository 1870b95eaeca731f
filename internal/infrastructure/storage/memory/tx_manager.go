package memory

import (
	"context"
	"errors"

	"hobbyshop/internal/core/tx"
)

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

var errReadOnlyHandle = errors.New("write attempted through a read-only handle")

// TxManager hands out scoped handles to a Store. A read-write handle
// snapshots the items on entry and restores them if fn fails.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new transaction manager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type handleKey struct{}

type handle struct {
	readOnly bool
}

func handleFrom(ctx context.Context) *handle {
	if h, ok := ctx.Value(handleKey{}).(*handle); ok {
		return h
	}
	return nil
}

// RunInTransaction executes fn within a read-write handle.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, false, fn)
}

// ReadOnly executes fn within a read-only handle.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, true, fn)
}

func (m *TxManager) run(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) error {
	if existing := handleFrom(ctx); existing != nil {
		if existing.readOnly && !readOnly {
			return errReadOnlyHandle
		}
		return fn(ctx)
	}

	if err := m.store.acquire(); err != nil {
		return err
	}
	defer m.store.release()

	hctx := context.WithValue(ctx, handleKey{}, &handle{readOnly: readOnly})
	if readOnly {
		return fn(hctx)
	}

	m.store.writeMu.Lock()
	defer m.store.writeMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(hctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

func checkWritable(ctx context.Context) error {
	if h := handleFrom(ctx); h != nil && h.readOnly {
		return errReadOnlyHandle
	}
	return nil
}
