// Package domain provides core business logic interfaces and types.
package domain

import (
	"hobbyshop/internal/domain/filter"
)

// --- Filter & Pagination ---

// PageSize is the fixed number of items on a catalog page.
const PageSize = 10

// ListFilter contains filtering options for list operations.
type ListFilter struct {
	// Historical selects active, archived or all explicitly flagged items
	Historical filter.Historical

	// Search keeps items whose name contains the term (case-insensitive)
	Search string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns the filter of a freshly opened catalog page.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Historical: filter.Active,
		Limit:      PageSize,
	}
}

// TotalPages returns the number of pages for count matches.
// An empty result still has one page.
func TotalPages(count int64, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	pages := count / int64(pageSize)
	if count%int64(pageSize) > 0 {
		pages++
	}
	return int(pages)
}

// ClampPage bounds page to [1, totalPages]. Pages below 1 are treated as 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageOffset returns the number of rows to skip for a 1-based page.
func PageOffset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}
