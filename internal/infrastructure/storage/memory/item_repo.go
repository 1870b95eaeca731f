package memory

import (
	"context"
	"sort"
	"strings"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/catalogs/item"
)

// Compile-time check that ItemRepo implements item.Repository interface.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository on a Store.
type ItemRepo struct {
	store *Store
}

// NewItemRepo creates a new item repository.
func NewItemRepo(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

// matching returns the items passing f, ordered by id. Caller holds mu.
func (r *ItemRepo) matching(f domain.ListFilter) []*item.Item {
	term := strings.ToLower(f.Search)

	out := make([]*item.Item, 0, len(r.store.items))
	for _, it := range r.store.items {
		if !f.Historical.Matches(it.Historical) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(it.ItemName), term) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of items matching f.
func (r *ItemRepo) Count(_ context.Context, f domain.ListFilter) (int64, error) {
	if err := r.store.checkAvailable(); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.matching(f))), nil
}

// List returns one window of matching items.
func (r *ItemRepo) List(_ context.Context, f domain.ListFilter) ([]*item.Item, error) {
	if err := r.store.checkAvailable(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.matching(f)
	start := f.Offset
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	page := make([]*item.Item, 0, end-start)
	for _, it := range all[start:end] {
		page = append(page, it.Clone())
	}
	return page, nil
}

// GetByID retrieves item by ID.
func (r *ItemRepo) GetByID(_ context.Context, itemID id.ID) (*item.Item, error) {
	if err := r.store.checkAvailable(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	it, ok := r.store.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return it.Clone(), nil
}

// Create inserts it and assigns its ID.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	if err := r.writable(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextID++
	it.ID = r.store.nextID
	r.store.items[it.ID] = it.Clone()
	return nil
}

// Update overwrites the stored item.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	if err := r.writable(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID)
	}
	r.store.items[it.ID] = it.Clone()
	return nil
}

// ToggleHistorical flips only the historical flag of the stored item.
func (r *ItemRepo) ToggleHistorical(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if err := r.writable(ctx); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	it, ok := r.store.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	flipped := !it.IsHistorical()
	it.Historical = &flipped
	return it.Clone(), nil
}

func (r *ItemRepo) writable(ctx context.Context) error {
	if err := r.store.checkAvailable(); err != nil {
		return err
	}
	return checkWritable(ctx)
}
