package item

import (
	"context"
	"fmt"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/tx"
	"hobbyshop/internal/domain"
	"hobbyshop/internal/domain/filter"
)

// ViewQuery selects one page of the catalog.
type ViewQuery struct {
	Historical filter.Historical
	Search     string

	// Page is 1-based. Out-of-range values are clamped.
	Page int
}

// CatalogView is one page of items plus pagination metadata.
// It is recomputed on every query and never persisted.
type CatalogView struct {
	Items       []*Item           `json:"items"`
	Historical  filter.Historical `json:"historical"`
	Search      string            `json:"search"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	TotalCount  int64             `json:"totalCount"`
	TotalPages  int               `json:"totalPages"`
}

// IsFirstPage reports whether there is no previous page.
func (v *CatalogView) IsFirstPage() bool {
	return v.CurrentPage <= 1
}

// IsLastPage reports whether there is no next page.
func (v *CatalogView) IsLastPage() bool {
	return v.CurrentPage >= v.TotalPages
}

// QueryEngine builds filtered, searched, paginated views of the catalog.
type QueryEngine struct {
	repo Repository
	txm  tx.Manager
}

// NewQueryEngine creates a new query engine.
func NewQueryEngine(repo Repository, txm tx.Manager) *QueryEngine {
	return &QueryEngine{repo: repo, txm: txm}
}

// Query returns the requested page. The count and the page fetch share one
// read-only handle; the page number is clamped against the filtered count
// before the fetch. Collaborator failures are returned as-is and no partial
// view is produced.
func (e *QueryEngine) Query(ctx context.Context, q ViewQuery) (*CatalogView, error) {
	if !q.Historical.Valid() {
		return nil, apperror.NewInvalidInput("historical", string(q.Historical))
	}

	f := domain.ListFilter{
		Historical: q.Historical,
		Search:     q.Search,
	}
	view := &CatalogView{
		Historical: q.Historical,
		Search:     q.Search,
		PageSize:   domain.PageSize,
	}

	err := e.txm.ReadOnly(ctx, func(ctx context.Context) error {
		count, err := e.repo.Count(ctx, f)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}

		view.TotalCount = count
		view.TotalPages = domain.TotalPages(count, domain.PageSize)
		view.CurrentPage = domain.ClampPage(q.Page, view.TotalPages)

		f.Limit = domain.PageSize
		f.Offset = domain.PageOffset(view.CurrentPage, domain.PageSize)

		items, err := e.repo.List(ctx, f)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		view.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	if view.Items == nil {
		view.Items = []*Item{}
	}
	return view, nil
}
