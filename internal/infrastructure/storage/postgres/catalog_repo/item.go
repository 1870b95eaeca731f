package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/filter"
	"hobbyshop/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

// Compile-time check that ItemRepo implements item.Repository interface.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			itemTable,
			"item",
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return new(item.Item) },
		),
	}
}

// likeEscaper escapes LIKE metacharacters so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyFilter narrows q to the items f selects.
func applyFilter(q squirrel.SelectBuilder, f domain.ListFilter) (squirrel.SelectBuilder, error) {
	switch f.Historical {
	case filter.Active, filter.Inactive:
		v, _ := f.Historical.Value()
		q = q.Where(squirrel.Eq{"historical": v})
	case filter.All:
		q = q.Where(squirrel.NotEq{"historical": nil})
	default:
		return q, apperror.NewInvalidInput("historical", string(f.Historical))
	}

	if f.Search != "" {
		q = q.Where(squirrel.ILike{"item_name": "%" + likeEscaper.Replace(f.Search) + "%"})
	}
	return q, nil
}

// countQuery builds the COUNT for f.
func (r *ItemRepo) countQuery(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	return applyFilter(r.Builder().Select("COUNT(*)").From(itemTable), f)
}

// listQuery builds the windowed SELECT for f.
func (r *ItemRepo) listQuery(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	q, err := applyFilter(r.baseSelect(), f)
	if err != nil {
		return q, err
	}
	q = q.OrderBy("id ASC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q, nil
}

// Count returns the number of items matching f.
func (r *ItemRepo) Count(ctx context.Context, f domain.ListFilter) (int64, error) {
	q, err := r.countQuery(f)
	if err != nil {
		return 0, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.Classify("count items", err)
	}
	return count, nil
}

// List returns one window of matching items ordered by id.
func (r *ItemRepo) List(ctx context.Context, f domain.ListFilter) ([]*item.Item, error) {
	q, err := r.listQuery(f)
	if err != nil {
		return nil, err
	}
	items, err := r.selectAll(ctx, q, "list items")
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*item.Item{}
	}
	return items, nil
}

// writeColumns returns every column except id.
func writeColumns(it *item.Item) map[string]any {
	return postgres.StructToMap(it, "id")
}

// Create inserts it and assigns its ID.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	q := r.Builder().
		Insert(itemTable).
		SetMap(writeColumns(it)).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID id.ID
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return postgres.Classify("insert item", err)
	}
	it.ID = newID
	return nil
}

// Update overwrites every column of an existing item. There is no version
// check: the last write wins.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	q := r.Builder().
		Update(itemTable).
		SetMap(writeColumns(it)).
		Where(squirrel.Eq{"id": it.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.Classify("update item", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", it.ID)
	}
	return nil
}

// toggleQuery flips the flag in place so a concurrent edit of other columns
// is never overwritten.
func (r *ItemRepo) toggleQuery(itemID id.ID) squirrel.UpdateBuilder {
	return r.Builder().
		Update(itemTable).
		Set("historical", squirrel.Expr("NOT COALESCE(historical, FALSE)")).
		Where(squirrel.Eq{"id": itemID}).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", "))
}

// ToggleHistorical flips the historical flag and returns the stored item.
func (r *ItemRepo) ToggleHistorical(ctx context.Context, itemID id.ID) (*item.Item, error) {
	sql, args, err := r.toggleQuery(itemID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build toggle: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.querier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, postgres.Classify("toggle historical", err)
	}
	return &it, nil
}
