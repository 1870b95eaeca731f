// Package tx provides the scoped persistence handle abstraction.
// Domain services depend on these interfaces; implementations live in
// infrastructure/storage (postgres and memory).
package tx

import (
	"context"
)

// Manager opens a scoped handle to the persistence collaborator for the
// duration of fn and releases it on every exit path.
//
// If fn returns an error the handle's work is discarded.
// Nested calls reuse the handle already carried by ctx.
type Manager interface {
	// RunInTransaction executes fn within a read-write handle.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// ReadOnly executes fn within a read-only handle.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
