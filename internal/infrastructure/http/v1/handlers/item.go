package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/core/apperror"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/domain/filter"
	"hobbyshop/internal/infrastructure/http/v1/dto"
	"hobbyshop/internal/infrastructure/storage/postgres"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryReader reads the audit trail of an entity.
type HistoryReader interface {
	GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

// ItemHandler handles item catalog requests. Every request drives its own
// item.Session, so the handler keeps no per-user state.
type ItemHandler struct {
	*BaseHandler
	manager  *item.Manager
	resolver *reference.Resolver
	history  HistoryReader
}

// NewItemHandler creates a new item handler. history may be nil.
func NewItemHandler(base *BaseHandler, manager *item.Manager, resolver *reference.Resolver, history HistoryReader) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		manager:     manager,
		resolver:    resolver,
		history:     history,
	}
}

// RegisterRoutes registers item routes.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.GET("", h.List)
	items.POST("", h.Create)
	items.POST("/validate", h.Validate)
	items.GET("/:id", h.Get)
	items.PUT("/:id", h.Update)
	items.POST("/:id/historical", h.ToggleHistorical)
	items.GET("/:id/history", h.History)
}

// List handles GET /items?historical=&search=&page=
func (h *ItemHandler) List(c *gin.Context) {
	historical, err := filter.ParseHistorical(c.Query("historical"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("historical", c.Query("historical")))
		return
	}

	s := item.NewSession()
	s.Historical = historical
	s.Search = c.Query("search")
	s.Page = h.ParseIntQuery(c, "page", 1)

	view, err := h.manager.Open(c.Request.Context(), s)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCatalogView(view, h.resolver))
}

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	it, err := h.manager.BeginEdit(c.Request.Context(), item.NewSession(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if it == nil {
		h.Error(c, apperror.NewNotFound("item", itemID))
		return
	}
	c.JSON(http.StatusOK, dto.FromItem(it, h.resolver))
}

// Validate handles POST /items/validate. It reports whether the form may
// be saved without writing anything.
func (h *ItemHandler) Validate(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	candidate := item.NewItem()
	req.ApplyTo(candidate)

	failures := item.ValidationFailures(candidate)
	if failures == nil {
		failures = []string{}
	}
	h.OK(c, dto.ValidateResponse{
		CanSave:  item.CanSave(candidate),
		Failures: failures,
	})
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := item.NewSession()
	req.ApplyTo(h.manager.BeginCreate(s))

	created, err := h.manager.Create(c.Request.Context(), s)
	if err != nil {
		h.Error(c, err)
		return
	}
	if created == nil {
		h.Error(c, apperror.NewCannotSave(item.ValidationFailures(s.Candidate)))
		return
	}

	h.Created(c, dto.FromItem(created, h.resolver))
}

// Update handles PUT /items/:id. The whole record is replaced; an absent
// historical flag in the body keeps the stored one.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	s := item.NewSession()
	buf, err := h.manager.BeginEdit(ctx, s, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if buf == nil {
		h.Error(c, apperror.NewNotFound("item", itemID))
		return
	}

	req.ApplyTo(buf)
	if req.Historical != nil {
		v := *req.Historical
		buf.Historical = &v
	}

	updated, err := h.manager.Update(ctx, s)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromItem(updated, h.resolver))
}

// ToggleHistorical handles POST /items/:id/historical
func (h *ItemHandler) ToggleHistorical(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	it, err := h.manager.ToggleHistorical(c.Request.Context(), item.NewSession(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if it == nil {
		h.Error(c, apperror.NewNotFound("item", itemID))
		return
	}
	h.OK(c, dto.FromItem(it, h.resolver))
}

// History handles GET /items/:id/history?limit=
func (h *ItemHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{
			Code:    "NOT_IMPLEMENTED",
			Message: "Item history requires the database store",
		})
		return
	}

	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	entries, err := h.history.GetEntityHistory(c.Request.Context(), postgres.ItemAggregate, itemID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = dto.HistoryEntryResponse{
			ID:        e.ID.String(),
			Action:    string(e.Action),
			RequestID: e.RequestID,
			TraceID:   e.TraceID,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}
