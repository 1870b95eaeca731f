package item

import (
	"github.com/shopspring/decimal"

	"hobbyshop/internal/core/id"
)

// DemoItems returns the sample catalog loaded by "seed demo" and by the
// in-memory store when demo data is requested. IDs are left unassigned.
func DemoItems() []*Item {
	return []*Item{
		{
			SetName:     "Yu-Gi-Oh Cards",
			ItemName:    "Legend of Blue Eyes White Dragon",
			Description: "Legend of Blue Eyes White Dragon booster box, 1st edition.",
			Price:       decimalPtr("999.99"),
			Stock:       intPtr(20),
			CategoryID:  id.Ptr(1),
			TagID:       id.Ptr(1),
			Historical:  boolPtr(false),
		},
		{
			SetName:     "Legend Of Blue Eyes White Dragon - LOB",
			ItemName:    "Blue Eyes White Dragon",
			Description: "The Ultimate Yu-Gi-Oh Card.",
			Price:       decimalPtr("349.99"),
			Stock:       intPtr(1),
			CategoryID:  id.Ptr(1),
			ConditionID: id.Ptr(1),
			TagID:       id.Ptr(4),
			Historical:  boolPtr(false),
		},
	}
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int {
	return &v
}
