package v1

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that own a set of routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegisterAll mounts each registrar on group.
//
// Usage:
//
//	RegisterAll(router.Group("/api/v1/catalog"), itemHandler, referenceHandler)
func RegisterAll(group *gin.RouterGroup, registrars ...RouteRegistrar) {
	for _, r := range registrars {
		r.RegisterRoutes(group)
	}
}
