package item

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanSave(t *testing.T) {
	full := func() *Item {
		return &Item{
			ItemName:    "Blue Eyes White Dragon",
			Description: "The Ultimate Yu-Gi-Oh Card.",
			Price:       decimalPtr("349.99"),
			Stock:       intPtr(1),
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Item)
		nilItem  bool
		want     bool
		failures []string
	}{
		{name: "complete", mutate: func(*Item) {}, want: true},
		{name: "zero price and stock are present", mutate: func(i *Item) {
			i.Price = decimalPtr("0")
			i.Stock = intPtr(0)
		}, want: true},
		{name: "blank name", mutate: func(i *Item) { i.ItemName = "   " }, failures: []string{FieldItemName}},
		{name: "empty description", mutate: func(i *Item) { i.Description = "" }, failures: []string{FieldDescription}},
		{name: "missing price", mutate: func(i *Item) { i.Price = nil }, failures: []string{FieldPrice}},
		{name: "missing stock", mutate: func(i *Item) { i.Stock = nil }, failures: []string{FieldStock}},
		{name: "largest storable values", mutate: func(i *Item) {
			i.Price = decimalPtr("9999999999.99")
			i.Stock = intPtr(MaxStock)
		}, want: true},
		{name: "price overflows numeric(12,2)", mutate: func(i *Item) { i.Price = decimalPtr("1e20") }, failures: []string{FieldPrice}},
		{name: "price needs rounding", mutate: func(i *Item) { i.Price = decimalPtr("1.005") }, failures: []string{FieldPrice}},
		{name: "stock overflows integer", mutate: func(i *Item) { i.Stock = intPtr(MaxStock + 1) }, failures: []string{FieldStock}},
		{name: "empty candidate", mutate: func(i *Item) { *i = Item{} }, failures: []string{FieldItemName, FieldDescription, FieldPrice, FieldStock}},
		{name: "nil candidate", nilItem: true, failures: []string{FieldItemName, FieldDescription, FieldPrice, FieldStock}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidate *Item
			if !tt.nilItem {
				candidate = full()
				tt.mutate(candidate)
			}
			before := candidate.Clone()

			assert.Equal(t, tt.want, CanSave(candidate))
			assert.Equal(t, tt.failures, ValidationFailures(candidate))
			assert.Equal(t, before, candidate, "CanSave must not mutate the candidate")
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"349.99", "349.99"},
		{" 10 ", "10"},
		{"", ""},
		{"ten", ""},
		{"1.50", "1.5"},
		{"9999999999.99", "9999999999.99"},
		{"10000000000", ""},
		{"1e20", ""},
		{"1.005", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(*got))
		})
	}
}

func TestParseStock(t *testing.T) {
	assert.Equal(t, intPtr(20), ParseStock("20"))
	assert.Equal(t, intPtr(0), ParseStock("0"))
	assert.Nil(t, ParseStock(""))
	assert.Nil(t, ParseStock("1.5"))
	assert.Equal(t, intPtr(MaxStock), ParseStock("2147483647"))
	assert.Equal(t, intPtr(MinStock), ParseStock("-2147483648"))
	assert.Nil(t, ParseStock("2147483648"))
	assert.Nil(t, ParseStock("3000000000"))
}

func TestCanSave_ParsedOutOfRangeInput(t *testing.T) {
	candidate := &Item{
		ItemName:    "x",
		Description: "y",
		Price:       ParsePrice("1e20"),
		Stock:       ParseStock("3000000000"),
	}
	assert.False(t, CanSave(candidate))
	assert.Equal(t, []string{FieldPrice, FieldStock}, ValidationFailures(candidate))
}

func TestChange_EventType(t *testing.T) {
	tests := []struct {
		change *Change
		want   string
	}{
		{&Change{Action: ActionCreate, Item: &Item{}}, "ItemCreated"},
		{&Change{Action: ActionUpdate, Item: &Item{}}, "ItemUpdated"},
		{&Change{Action: ActionHistorical, Item: &Item{Historical: boolPtr(true)}}, "ItemArchived"},
		{&Change{Action: ActionHistorical, Item: &Item{Historical: boolPtr(false)}}, "ItemRestored"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.change.EventType())
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := DemoItems()[1]
	c := orig.Clone()

	*c.Stock = 99
	*c.CategoryID = 5
	*c.Historical = true

	assert.Equal(t, 1, *orig.Stock)
	assert.EqualValues(t, 1, *orig.CategoryID)
	assert.False(t, orig.IsHistorical())
	assert.Nil(t, (*Item)(nil).Clone())
}
