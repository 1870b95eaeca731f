package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyshop/internal/domain/catalogs/item"
)

func TestBulkItems(t *testing.T) {
	items := bulkItems(200, rand.New(rand.NewPCG(1, 1)))
	require.Len(t, items, 200)

	names := make(map[string]bool, len(items))
	for _, it := range items {
		assert.True(t, item.CanSave(it), "generated item must be savable: %v", item.ValidationFailures(it))
		assert.True(t, it.Price.IsPositive())
		assert.GreaterOrEqual(t, *it.Stock, 0)
		assert.False(t, names[it.ItemName], "duplicate name %s", it.ItemName)
		names[it.ItemName] = true
	}
	assert.Equal(t, "Bulk item 000001", items[0].ItemName)
}

func TestBulkItems_Deterministic(t *testing.T) {
	a := bulkItems(20, rand.New(rand.NewPCG(42, 42)))
	b := bulkItems(20, rand.New(rand.NewPCG(42, 42)))
	for i := range a {
		assert.Equal(t, a[i].Price.String(), b[i].Price.String())
		assert.Equal(t, *a[i].Stock, *b[i].Stock)
		assert.Equal(t, a[i].SetName, b[i].SetName)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "demo", "bulk"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}

	cmd, _, err := root.Find([]string{"migrate", "up"})
	require.NoError(t, err)
	assert.Equal(t, "up", cmd.Name())
}
