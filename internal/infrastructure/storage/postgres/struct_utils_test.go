package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain/catalogs/item"
)

func TestExtractDBColumns_Item(t *testing.T) {
	cols := ExtractDBColumns[item.Item]()

	assert.Equal(t, []string{
		"id", "set_name", "item_name", "description", "image", "price", "stock",
		"category_id", "condition_id", "tag_id", "historical",
	}, cols)
}

func TestExtractDBColumns_Reference(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, ExtractDBColumns[entity.Reference]())
}

func TestStructToMap_Item(t *testing.T) {
	price := decimal.RequireFromString("349.99")
	stock := 1
	historical := false
	it := &item.Item{
		BaseEntity: entity.BaseEntity{ID: 7},
		ItemName:   "Blue Eyes White Dragon",
		Price:      &price,
		Stock:      &stock,
		CategoryID: id.Ptr(1),
		Historical: &historical,
	}

	m := StructToMap(it)
	assert.Equal(t, id.ID(7), m["id"])
	assert.Equal(t, "Blue Eyes White Dragon", m["item_name"])
	assert.Equal(t, &price, m["price"])
	assert.Equal(t, &stock, m["stock"])
	assert.Equal(t, &historical, m["historical"])
	assert.Nil(t, m["condition_id"])
	assert.Len(t, m, 11)

	withoutID := StructToMap(it, "id")
	assert.NotContains(t, withoutID, "id")
	assert.Len(t, withoutID, 10)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*item.Item)(nil)))
}
