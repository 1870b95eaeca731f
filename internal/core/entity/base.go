// Package entity holds the building blocks shared by catalog entities.
package entity

import (
	"hobbyshop/internal/core/id"
)

// BaseEntity contains the identity every persisted entity carries.
type BaseEntity struct {
	// ID is assigned by persistence on insert and immutable afterwards
	ID id.ID `db:"id" json:"id"`
}

// IsNew reports whether the entity has not been persisted yet.
func (b BaseEntity) IsNew() bool {
	return id.IsNil(b.ID)
}

// Reference is an id/name pair for lookup tables (categories, conditions, tags).
// Reference rows are seeded once and read-only at runtime.
type Reference struct {
	BaseEntity
	Name string `db:"name" json:"name"`
}

// NewReference creates a Reference with a known identity.
func NewReference(refID id.ID, name string) Reference {
	return Reference{BaseEntity: BaseEntity{ID: refID}, Name: name}
}
