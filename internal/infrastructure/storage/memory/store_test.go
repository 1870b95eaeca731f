package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/domain/filter"
)

func flag(v bool) *bool { return &v }

func newSeeded(t *testing.T) (*Store, *ItemRepo, *TxManager) {
	t.Helper()
	s := NewStore()
	s.Insert(
		&item.Item{ItemName: "Blue Eyes White Dragon", Historical: flag(false)},
		&item.Item{ItemName: "Dark Magician", Historical: flag(true)},
		&item.Item{ItemName: "Red-Eyes Black Dragon", Historical: nil},
		&item.Item{ItemName: "dragon shield sleeves", Historical: flag(false)},
	)
	return s, NewItemRepo(s), NewTxManager(s)
}

func TestItemRepo_CountAndList(t *testing.T) {
	_, repo, _ := newSeeded(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    domain.ListFilter
		wantCount int64
		wantNames []string
	}{
		{
			name:      "active",
			filter:    domain.ListFilter{Historical: filter.Active},
			wantCount: 2,
			wantNames: []string{"Blue Eyes White Dragon", "dragon shield sleeves"},
		},
		{
			name:      "inactive",
			filter:    domain.ListFilter{Historical: filter.Inactive},
			wantCount: 1,
			wantNames: []string{"Dark Magician"},
		},
		{
			name:      "all skips absent flag",
			filter:    domain.ListFilter{Historical: filter.All},
			wantCount: 3,
			wantNames: []string{"Blue Eyes White Dragon", "Dark Magician", "dragon shield sleeves"},
		},
		{
			name:      "search is case-insensitive",
			filter:    domain.ListFilter{Historical: filter.Active, Search: "DRAGON"},
			wantCount: 2,
			wantNames: []string{"Blue Eyes White Dragon", "dragon shield sleeves"},
		},
		{
			name:      "window",
			filter:    domain.ListFilter{Historical: filter.All, Limit: 1, Offset: 1},
			wantCount: 3,
			wantNames: []string{"Dark Magician"},
		},
		{
			name:      "offset past end",
			filter:    domain.ListFilter{Historical: filter.All, Limit: 10, Offset: 50},
			wantCount: 3,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)

			items, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.ItemName)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestItemRepo_ToggleWritesOnlyFlag(t *testing.T) {
	s, repo, txm := newSeeded(t)
	ctx := context.Background()

	var toggled *item.Item
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		toggled, err = repo.ToggleHistorical(ctx, 3)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, toggled.Historical)
	assert.True(t, *toggled.Historical)

	stored, ok := s.Peek(3)
	require.True(t, ok)
	assert.Equal(t, "Red-Eyes Black Dragon", stored.ItemName)
	assert.True(t, stored.IsHistorical())
}

func TestItemRepo_NotFound(t *testing.T) {
	_, repo, txm := newSeeded(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99)
	assert.True(t, apperror.IsNotFound(err))

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return repo.Update(ctx, &item.Item{ItemName: "ghost"})
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestTxManager_RollbackOnError(t *testing.T) {
	s, repo, txm := newSeeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, &item.Item{ItemName: "Exodia"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := s.Peek(5)
	assert.False(t, ok)

	created := &item.Item{ItemName: "Exodia"}
	require.NoError(t, txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, created)
	}))
	assert.EqualValues(t, 5, created.ID)
}

func TestTxManager_ReadOnlyRejectsWrites(t *testing.T) {
	_, repo, txm := newSeeded(t)
	ctx := context.Background()

	err := txm.ReadOnly(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &item.Item{ItemName: "Exodia"})
	})
	assert.ErrorIs(t, err, errReadOnlyHandle)

	err = txm.ReadOnly(ctx, func(ctx context.Context) error {
		return txm.RunInTransaction(ctx, func(ctx context.Context) error { return nil })
	})
	assert.ErrorIs(t, err, errReadOnlyHandle)
}

func TestTxManager_HandlesReleased(t *testing.T) {
	s, repo, txm := newSeeded(t)
	ctx := context.Background()

	require.NoError(t, txm.ReadOnly(ctx, func(ctx context.Context) error {
		assert.EqualValues(t, 1, s.OpenHandles())
		// nested calls share the outer handle
		return txm.ReadOnly(ctx, func(ctx context.Context) error {
			_, err := repo.Count(ctx, domain.DefaultListFilter())
			return err
		})
	}))
	assert.EqualValues(t, 0, s.OpenHandles())
	assert.EqualValues(t, 1, s.HandlesAcquired())

	_ = txm.RunInTransaction(ctx, func(ctx context.Context) error { return errors.New("fail") })
	assert.EqualValues(t, 0, s.OpenHandles())
}

func TestStore_Unavailable(t *testing.T) {
	s, repo, txm := newSeeded(t)
	refs := NewReferenceRepo(s)
	ctx := context.Background()

	s.SetUnavailable(true)

	err := txm.ReadOnly(ctx, func(ctx context.Context) error { return nil })
	assert.True(t, apperror.IsUnavailable(err))
	assert.EqualValues(t, 0, s.OpenHandles())

	_, err = repo.Count(ctx, domain.DefaultListFilter())
	assert.True(t, apperror.IsUnavailable(err))

	_, err = refs.ListAll(ctx, reference.KindCategory)
	assert.True(t, apperror.IsUnavailable(err))

	s.SetUnavailable(false)
	_, err = repo.Count(ctx, domain.DefaultListFilter())
	assert.NoError(t, err)
}

func TestReferenceRepo_ListAll(t *testing.T) {
	repo := NewReferenceRepo(NewStore())
	ctx := context.Background()

	cats, err := repo.ListAll(ctx, reference.KindCategory)
	require.NoError(t, err)
	require.Len(t, cats, 5)
	assert.Equal(t, "Collectable Cards", cats[0].Name)

	conds, err := repo.ListAll(ctx, reference.KindCondition)
	require.NoError(t, err)
	assert.Len(t, conds, 6)

	tags, err := repo.ListAll(ctx, reference.KindTag)
	require.NoError(t, err)
	assert.Len(t, tags, 4)

	_, err = repo.ListAll(ctx, reference.Kind("colour"))
	assert.Error(t, err)
}
