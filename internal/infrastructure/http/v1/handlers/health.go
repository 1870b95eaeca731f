// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hobbyshop/internal/infrastructure/storage/postgres"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	app     string
	version string
	store   string
	pool    *postgres.Pool
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. pool is nil when the service
// runs on the in-memory store; ping then reports that store's state.
func NewHealthHandler(app, version string, pool *postgres.Pool, ping func(ctx context.Context) error) *HealthHandler {
	h := &HealthHandler{app: app, version: version, pool: pool, ping: ping, store: "memory"}
	if pool != nil {
		h.store = "postgres"
		h.ping = pool.Ping
	}
	return h
}

// RegisterRoutes registers /live, /ready and /info.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Live)
	rg.GET("/ready", h.Ready)
	rg.GET("/info", h.Info)
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{
					h.store: "unhealthy: " + err.Error(),
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			h.store: "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     h.app,
		"version": h.version,
		"store":   h.store,
	}
	if h.pool != nil {
		stats := postgres.GetPoolStats(h.pool.Pool)
		info["database"] = map[string]any{
			"total_conns":    stats.TotalConns,
			"acquired_conns": stats.AcquiredConns,
			"idle_conns":     stats.IdleConns,
			"max_conns":      stats.MaxConns,
		}
	}
	c.JSON(http.StatusOK, info)
}
