package item

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Storage bounds: price is NUMERIC(12,2), stock is INTEGER.
const (
	PriceScale = 2
	MaxStock   = math.MaxInt32
	MinStock   = math.MinInt32
)

// maxPrice is the first value NUMERIC(12,2) cannot hold.
var maxPrice = decimal.New(1, 12-PriceScale)

// PriceFits reports whether d is storable without rounding or overflow.
func PriceFits(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxPrice) && d.Equal(d.Round(PriceScale))
}

// StockFits reports whether n is storable as a 32-bit integer.
func StockFits(n int) bool {
	return n >= MinStock && n <= MaxStock
}

// Field names reported by ValidationFailures.
const (
	FieldItemName    = "itemName"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStock       = "stock"
)

// CanSave reports whether candidate may be created: item name and description
// must be non-blank, price and stock must be present.
// It is pure and never mutates candidate.
func CanSave(candidate *Item) bool {
	return len(ValidationFailures(candidate)) == 0
}

// ValidationFailures lists the fields that keep candidate from being saved,
// in form order. A nil candidate fails every field.
func ValidationFailures(candidate *Item) []string {
	if candidate == nil {
		return []string{FieldItemName, FieldDescription, FieldPrice, FieldStock}
	}

	var failures []string
	if strings.TrimSpace(candidate.ItemName) == "" {
		failures = append(failures, FieldItemName)
	}
	if strings.TrimSpace(candidate.Description) == "" {
		failures = append(failures, FieldDescription)
	}
	if candidate.Price == nil || !PriceFits(*candidate.Price) {
		failures = append(failures, FieldPrice)
	}
	if candidate.Stock == nil || !StockFits(*candidate.Stock) {
		failures = append(failures, FieldStock)
	}
	return failures
}

// ParsePrice converts raw form input to a price.
// Blank, unparsable or unstorable input (more than two decimals, or 10^10
// and above) yields nil, which CanSave treats as missing.
func ParsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !PriceFits(d) {
		return nil
	}
	return &d
}

// ParseStock converts raw form input to a stock count.
// Blank, non-integer or out-of-range (32-bit) input yields nil, which
// CanSave treats as missing.
func ParseStock(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := int(n)
	return &v
}
