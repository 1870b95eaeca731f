// Package item provides the Item catalog: querying, validation and the
// create/update/archive lifecycle of storefront inventory.
package item

import (
	"github.com/shopspring/decimal"

	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/core/id"
)

// Item represents a catalog entry.
type Item struct {
	entity.BaseEntity

	SetName     string `db:"set_name" json:"setName"`
	ItemName    string `db:"item_name" json:"itemName"`
	Description string `db:"description" json:"description"`

	// Image is a URL or path to the product picture
	Image string `db:"image" json:"image"`

	Price *decimal.Decimal `db:"price" json:"price"`
	Stock *int             `db:"stock" json:"stock"`

	CategoryID  *id.ID `db:"category_id" json:"categoryId"`
	ConditionID *id.ID `db:"condition_id" json:"conditionId"`
	TagID       *id.ID `db:"tag_id" json:"tagId"`

	// Historical marks archived items. nil means the flag was never set.
	Historical *bool `db:"historical" json:"historical"`
}

// NewItem returns an empty candidate for the create form.
func NewItem() *Item {
	return &Item{}
}

// IsHistorical reports the archival flag, treating an absent flag as false.
func (i *Item) IsHistorical() bool {
	return i.Historical != nil && *i.Historical
}

// Clone returns a deep copy so callers can hand out items without sharing pointers.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Price != nil {
		p := *i.Price
		c.Price = &p
	}
	if i.Stock != nil {
		s := *i.Stock
		c.Stock = &s
	}
	c.CategoryID = cloneID(i.CategoryID)
	c.ConditionID = cloneID(i.ConditionID)
	c.TagID = cloneID(i.TagID)
	if i.Historical != nil {
		h := *i.Historical
		c.Historical = &h
	}
	return &c
}

func cloneID(v *id.ID) *id.ID {
	if v == nil {
		return nil
	}
	return id.Ptr(*v)
}

// --- Change notifications ---

// Action names a lifecycle mutation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionHistorical Action = "historical"
)

// Change describes a completed mutation. Hooks receive it inside the
// mutation's scoped handle, so anything they write commits with it.
type Change struct {
	Action Action
	Item   *Item

	// Previous is the stored state before an update or toggle; nil on create.
	Previous *Item
}

// EventType returns the name used for outbox events.
func (c *Change) EventType() string {
	switch c.Action {
	case ActionCreate:
		return "ItemCreated"
	case ActionUpdate:
		return "ItemUpdated"
	case ActionHistorical:
		if c.Item.IsHistorical() {
			return "ItemArchived"
		}
		return "ItemRestored"
	}
	return "ItemChanged"
}
