package catalog_repo

import (
	"context"
	"fmt"

	"hobbyshop/internal/core/entity"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/infrastructure/storage/postgres"
)

// Compile-time check that ReferenceRepo implements reference.Repository interface.
var _ reference.Repository = (*ReferenceRepo)(nil)

var referenceTables = map[reference.Kind]string{
	reference.KindCategory:  "categories",
	reference.KindCondition: "conditions",
	reference.KindTag:       "tags",
}

// ReferenceRepo implements reference.Repository over the categories,
// conditions and tags tables.
type ReferenceRepo struct {
	tables map[reference.Kind]*BaseCatalogRepo[entity.Reference]
}

// NewReferenceRepo creates a new reference repository.
func NewReferenceRepo(txm *postgres.TxManager) *ReferenceRepo {
	cols := postgres.ExtractDBColumns[entity.Reference]()

	tables := make(map[reference.Kind]*BaseCatalogRepo[entity.Reference], len(referenceTables))
	for kind, table := range referenceTables {
		tables[kind] = NewBaseCatalogRepo(txm, table, string(kind), cols,
			func() entity.Reference { return entity.Reference{} })
	}
	return &ReferenceRepo{tables: tables}
}

// ListAll returns every row of the kind's table ordered by id.
func (r *ReferenceRepo) ListAll(ctx context.Context, kind reference.Kind) ([]entity.Reference, error) {
	base, ok := r.tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	rows, err := base.selectAll(ctx, base.baseSelect().OrderBy("id ASC"), "list "+base.tableName)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.Reference{}
	}
	return rows, nil
}
