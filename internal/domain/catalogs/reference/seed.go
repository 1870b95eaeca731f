package reference

import (
	"hobbyshop/internal/core/entity"
)

// Seed returns the rows every new store starts with.
// The postgres migrations insert the same rows.
func Seed() map[Kind][]entity.Reference {
	return map[Kind][]entity.Reference{
		KindCategory: {
			entity.NewReference(1, "Collectable Cards"),
			entity.NewReference(2, "Collectable Cars"),
			entity.NewReference(3, "Trading Cards"),
			entity.NewReference(4, "Funko Pops"),
			entity.NewReference(5, "Board Games"),
		},
		KindCondition: {
			entity.NewReference(1, "Perfect"),
			entity.NewReference(2, "Near Mint"),
			entity.NewReference(3, "Mint"),
			entity.NewReference(4, "Played"),
			entity.NewReference(5, "Damaged"),
			entity.NewReference(6, "Badly Damaged"),
		},
		KindTag: {
			entity.NewReference(1, "New Arrival"),
			entity.NewReference(2, "Pre-Order"),
			entity.NewReference(3, "Sale"),
			entity.NewReference(4, "Singles"),
		},
	}
}
