package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiters_Reserve(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newRateLimiters(RateLimitConfig{RPS: 1, Burst: 2})
	r.now = func() time.Time { return now }

	assert.Zero(t, r.reserve("10.0.0.1"))
	assert.Zero(t, r.reserve("10.0.0.1"))
	assert.Greater(t, r.reserve("10.0.0.1"), time.Duration(0), "burst exhausted")
	assert.Zero(t, r.reserve("10.0.0.2"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.Zero(t, r.reserve("10.0.0.1"), "one token refilled")
}

func TestRateLimiters_CleanupDropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newRateLimiters(RateLimitConfig{RPS: 1, IdleTTL: time.Minute})
	r.now = func() time.Time { return now }

	r.reserve("10.0.0.1")
	now = now.Add(2 * time.Minute)
	r.reserve("10.0.0.2")

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.NotContains(t, r.clients, "10.0.0.1")
	assert.Contains(t, r.clients, "10.0.0.2")
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		cfg      RateLimitConfig
		requests int
		wantLast int
	}{
		{name: "disabled", cfg: RateLimitConfig{}, requests: 5, wantLast: http.StatusOK},
		{name: "within burst", cfg: RateLimitConfig{RPS: 0.001, Burst: 3}, requests: 3, wantLast: http.StatusOK},
		{name: "over burst", cfg: RateLimitConfig{RPS: 0.001, Burst: 3}, requests: 4, wantLast: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(), RateLimit(tt.cfg))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			var w *httptest.ResponseRecorder
			for i := 0; i < tt.requests; i++ {
				w = httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = "192.0.2.1:1234"
				r.ServeHTTP(w, req)
			}

			assert.Equal(t, tt.wantLast, w.Code)
			if tt.wantLast == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
				assert.Contains(t, w.Body.String(), "RATE_LIMITED")
			}
		})
	}
}
