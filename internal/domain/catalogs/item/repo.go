package item

import (
	"context"

	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain"
)

// Repository defines the interface for Item persistence.
// Implementations take their handle from ctx (see tx.Manager).
type Repository interface {
	// Count returns the number of items matching filter, ignoring Limit/Offset.
	Count(ctx context.Context, filter domain.ListFilter) (int64, error)

	// List returns matching items ordered by id ascending, then windowed by Limit/Offset.
	List(ctx context.Context, filter domain.ListFilter) ([]*Item, error)

	// GetByID returns apperror NotFound when the item does not exist.
	GetByID(ctx context.Context, id id.ID) (*Item, error)

	// Create inserts item and assigns its ID.
	Create(ctx context.Context, item *Item) error

	// Update overwrites every mutable column of an existing item.
	Update(ctx context.Context, item *Item) error

	// ToggleHistorical flips the historical flag (absent counts as false)
	// writing only that column, and returns the item as stored afterwards.
	ToggleHistorical(ctx context.Context, id id.ID) (*Item, error)
}
