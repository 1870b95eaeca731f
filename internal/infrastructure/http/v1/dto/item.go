package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/domain/filter"
)

// ItemRequest is the create/edit form. Price and stock arrive as the raw
// text the admin typed; unparseable values become absent.
type ItemRequest struct {
	SetName     string `json:"setName"`
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       Raw    `json:"price"`
	Stock       Raw    `json:"stock"`
	CategoryID  *id.ID `json:"categoryId"`
	ConditionID *id.ID `json:"conditionId"`
	TagID       *id.ID `json:"tagId"`

	// Historical is only honoured on update; nil keeps the stored flag.
	Historical *bool `json:"historical"`
}

// Raw accepts either a JSON string or a JSON number and keeps its text.
type Raw string

// UnmarshalJSON implements json.Unmarshaler.
func (r *Raw) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Raw(s)
		return nil
	}
	*r = Raw(strings.TrimSpace(string(b)))
	return nil
}

// ApplyTo copies the form onto it. The id and historical flag are left
// to the caller.
func (r ItemRequest) ApplyTo(it *item.Item) {
	it.SetName = r.SetName
	it.ItemName = r.ItemName
	it.Description = r.Description
	it.Image = r.Image
	it.Price = item.ParsePrice(string(r.Price))
	it.Stock = item.ParseStock(string(r.Stock))
	it.CategoryID = r.CategoryID
	it.ConditionID = r.ConditionID
	it.TagID = r.TagID
}

// ItemResponse is an item with its reference ids resolved to names.
type ItemResponse struct {
	ID            id.ID            `json:"id"`
	SetName       string           `json:"setName"`
	ItemName      string           `json:"itemName"`
	Description   string           `json:"description"`
	Image         string           `json:"image"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	CategoryID    *id.ID           `json:"categoryId"`
	CategoryName  string           `json:"categoryName"`
	ConditionID   *id.ID           `json:"conditionId"`
	ConditionName string           `json:"conditionName"`
	TagID         *id.ID           `json:"tagId"`
	TagName       string           `json:"tagName"`
	Historical    *bool            `json:"historical"`
}

// FromItem creates ItemResponse from item.Item.
func FromItem(it *item.Item, r *reference.Resolver) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		SetName:       it.SetName,
		ItemName:      it.ItemName,
		Description:   it.Description,
		Image:         it.Image,
		Price:         it.Price,
		Stock:         it.Stock,
		CategoryID:    it.CategoryID,
		CategoryName:  r.ResolveCategory(it.CategoryID),
		ConditionID:   it.ConditionID,
		ConditionName: r.ResolveCondition(it.ConditionID),
		TagID:         it.TagID,
		TagName:       r.ResolveTag(it.TagID),
		Historical:    it.Historical,
	}
}

// CatalogViewResponse is one page of the catalog.
type CatalogViewResponse struct {
	Items       []ItemResponse    `json:"items"`
	Historical  filter.Historical `json:"historical"`
	Search      string            `json:"search"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	TotalCount  int64             `json:"totalCount"`
	TotalPages  int               `json:"totalPages"`
	IsFirstPage bool              `json:"isFirstPage"`
	IsLastPage  bool              `json:"isLastPage"`
}

// FromCatalogView creates CatalogViewResponse from item.CatalogView.
func FromCatalogView(v *item.CatalogView, r *reference.Resolver) CatalogViewResponse {
	items := make([]ItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = FromItem(it, r)
	}
	return CatalogViewResponse{
		Items:       items,
		Historical:  v.Historical,
		Search:      v.Search,
		CurrentPage: v.CurrentPage,
		PageSize:    v.PageSize,
		TotalCount:  v.TotalCount,
		TotalPages:  v.TotalPages,
		IsFirstPage: v.IsFirstPage(),
		IsLastPage:  v.IsLastPage(),
	}
}

// ValidateResponse tells the form whether Save may be enabled.
type ValidateResponse struct {
	CanSave  bool     `json:"canSave"`
	Failures []string `json:"failures"`
}

// HistoryEntryResponse is one audit record of an item.
type HistoryEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	RequestID string          `json:"requestId,omitempty"`
	TraceID   string          `json:"traceId,omitempty"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"createdAt"`
}
