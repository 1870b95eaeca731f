package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/infrastructure/http/v1/dto"
)

// ReferenceHandler serves the lookup tables for pick lists.
type ReferenceHandler struct {
	resolver *reference.Resolver
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(resolver *reference.Resolver) *ReferenceHandler {
	return &ReferenceHandler{resolver: resolver}
}

// RegisterRoutes registers /categories, /conditions and /tags.
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.list(reference.KindCategory))
	rg.GET("/conditions", h.list(reference.KindCondition))
	rg.GET("/tags", h.list(reference.KindTag))
}

func (h *ReferenceHandler) list(kind reference.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.FromReferences(h.resolver.List(kind)))
	}
}
