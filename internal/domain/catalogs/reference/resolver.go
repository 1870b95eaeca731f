package reference

import (
	"context"
	"fmt"
	"sort"

	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/core/tx"
)

// Resolver turns reference ids into display names.
//
// Tables are loaded once and never refreshed; rows added to the database
// afterwards resolve as "Unknown <Kind>" until the resolver is rebuilt.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	names map[Kind]map[id.ID]string
	rows  map[Kind][]entity.Reference
}

// LoadResolver reads every lookup table through one read-only handle.
func LoadResolver(ctx context.Context, repo Repository, txm tx.Manager) (*Resolver, error) {
	loaded := make(map[Kind][]entity.Reference, len(Kinds))
	err := txm.ReadOnly(ctx, func(ctx context.Context) error {
		for _, kind := range Kinds {
			rows, err := repo.ListAll(ctx, kind)
			if err != nil {
				return fmt.Errorf("load %s references: %w", kind, err)
			}
			loaded[kind] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewResolver(loaded[KindCategory], loaded[KindCondition], loaded[KindTag]), nil
}

// NewResolver builds a resolver from already loaded rows.
func NewResolver(categories, conditions, tags []entity.Reference) *Resolver {
	r := &Resolver{
		names: make(map[Kind]map[id.ID]string, len(Kinds)),
		rows:  make(map[Kind][]entity.Reference, len(Kinds)),
	}
	r.add(KindCategory, categories)
	r.add(KindCondition, conditions)
	r.add(KindTag, tags)
	return r
}

func (r *Resolver) add(kind Kind, rows []entity.Reference) {
	sorted := make([]entity.Reference, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	names := make(map[id.ID]string, len(sorted))
	for _, row := range sorted {
		names[row.ID] = row.Name
	}
	r.names[kind] = names
	r.rows[kind] = sorted
}

// Resolve returns the display name for refID in the kind's table:
// "No <Kind>" when refID is nil, "Unknown <Kind>" when it is not in the table.
func (r *Resolver) Resolve(kind Kind, refID *id.ID) string {
	if refID == nil {
		return "No " + kind.Label()
	}
	if name, ok := r.names[kind][*refID]; ok {
		return name
	}
	return "Unknown " + kind.Label()
}

// ResolveCategory returns the category label for refID.
func (r *Resolver) ResolveCategory(refID *id.ID) string {
	return r.Resolve(KindCategory, refID)
}

// ResolveCondition returns the condition label for refID.
func (r *Resolver) ResolveCondition(refID *id.ID) string {
	return r.Resolve(KindCondition, refID)
}

// ResolveTag returns the tag label for refID.
func (r *Resolver) ResolveTag(refID *id.ID) string {
	return r.Resolve(KindTag, refID)
}

// List returns a copy of the kind's rows ordered by id, for pick lists.
func (r *Resolver) List(kind Kind) []entity.Reference {
	rows := r.rows[kind]
	out := make([]entity.Reference, len(rows))
	copy(out, rows)
	return out
}

// Categories returns the category pick list.
func (r *Resolver) Categories() []entity.Reference { return r.List(KindCategory) }

// Conditions returns the condition pick list.
func (r *Resolver) Conditions() []entity.Reference { return r.List(KindCondition) }

// Tags returns the tag pick list.
func (r *Resolver) Tags() []entity.Reference { return r.List(KindTag) }
