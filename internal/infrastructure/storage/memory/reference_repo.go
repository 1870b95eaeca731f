package memory

import (
	"context"
	"fmt"
	"sort"

	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/domain/catalogs/reference"
)

// Compile-time check that ReferenceRepo implements reference.Repository interface.
var _ reference.Repository = (*ReferenceRepo)(nil)

// ReferenceRepo implements reference.Repository on a Store.
type ReferenceRepo struct {
	store *Store
}

// NewReferenceRepo creates a new reference repository.
func NewReferenceRepo(store *Store) *ReferenceRepo {
	return &ReferenceRepo{store: store}
}

// ListAll returns a copy of the kind's rows ordered by id.
func (r *ReferenceRepo) ListAll(_ context.Context, kind reference.Kind) ([]entity.Reference, error) {
	if err := r.store.checkAvailable(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, ok := r.store.refs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	out := make([]entity.Reference, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
