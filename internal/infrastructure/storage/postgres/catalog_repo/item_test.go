package catalog_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
)

func TestItemRepo_ToggleQuery(t *testing.T) {
	repo := NewItemRepo(nil)

	sql, args, err := repo.toggleQuery(7).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE items SET historical = NOT COALESCE(historical, FALSE) WHERE id = $1 RETURNING "+itemCols,
		sql)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestItemRepo_UpdateWritesEveryColumnButID(t *testing.T) {
	repo := NewItemRepo(nil)
	it := item.DemoItems()[1]
	it.ID = 2

	sql, args, err := repo.Builder().
		Update(itemTable).
		SetMap(writeColumns(it)).
		Where("id = ?", it.ID).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE items SET category_id = $1, condition_id = $2, description = $3, historical = $4, "+
			"image = $5, item_name = $6, price = $7, set_name = $8, stock = $9, tag_id = $10 WHERE id = $11",
		sql)
	assert.Len(t, args, 11)
	assert.NotContains(t, strings.SplitN(sql, "WHERE", 2)[0], " id =")
}

func TestReferenceRepo_Tables(t *testing.T) {
	repo := NewReferenceRepo(nil)

	for _, kind := range reference.Kinds {
		base, ok := repo.tables[kind]
		require.True(t, ok, kind)

		sql, _, err := base.baseSelect().OrderBy("id ASC").ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, name FROM "+referenceTables[kind]+" ORDER BY id ASC", sql)
	}

	assert.Equal(t, []string{"id", "name"}, repo.tables[reference.KindTag].selectCols)
}
