// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/core/idempotency"
	"hobbyshop/internal/domain/catalogs/item"
	"hobbyshop/internal/domain/catalogs/reference"
	"hobbyshop/internal/infrastructure/http/v1/handlers"
	"hobbyshop/internal/infrastructure/http/v1/middleware"
	"hobbyshop/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Manager runs item queries and lifecycle operations
	Manager *item.Manager

	// Resolver turns reference ids into names
	Resolver *reference.Resolver

	// History reads item audit trails; nil disables /items/:id/history
	History handlers.HistoryReader

	// Idempotency enables X-Idempotency-Key handling on mutations when set
	Idempotency idempotency.Store

	// Health serves /health/*
	Health *handlers.HealthHandler

	// Metrics serves /metrics when set
	Metrics http.Handler

	// RateLimit bounds requests per client on /api/v1
	RateLimit middleware.RateLimitConfig

	// Debug keeps gin in debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(router.Group("/health"))
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit))
	catalog := v1.Group("/catalog")
	if cfg.Idempotency != nil {
		catalog.Use(middleware.Idempotency(cfg.Idempotency))
	}

	base := handlers.NewBaseHandler()
	RegisterAll(catalog,
		handlers.NewItemHandler(base, cfg.Manager, cfg.Resolver, cfg.History),
		handlers.NewReferenceHandler(cfg.Resolver),
	)

	return router
}
