// Package reference provides the read-only lookup tables that annotate items:
// categories, conditions and tags.
package reference

import (
	"context"

	"hobbyshop/internal/core/entity"
)

// Kind identifies a lookup table.
type Kind string

const (
	KindCategory  Kind = "category"
	KindCondition Kind = "condition"
	KindTag       Kind = "tag"
)

// Kinds lists every lookup table in display order.
var Kinds = []Kind{KindCategory, KindCondition, KindTag}

// Label is the display word used in sentinel names ("No Category").
func (k Kind) Label() string {
	switch k {
	case KindCategory:
		return "Category"
	case KindCondition:
		return "Condition"
	case KindTag:
		return "Tag"
	}
	return string(k)
}

// Repository loads lookup tables.
type Repository interface {
	// ListAll returns every row of the table, ordered by id.
	ListAll(ctx context.Context, kind Kind) ([]entity.Reference, error)
}
