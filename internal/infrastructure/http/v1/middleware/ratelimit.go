package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hobbyshop/internal/core/apperror"
)

// RateLimitConfig bounds requests per client IP. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int

	// IdleTTL drops limiters of clients not seen for this long
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiters tracks one token bucket per client.
type rateLimiters struct {
	cfg         RateLimitConfig
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	lastCleanup time.Time
	now         func() time.Time
}

func newRateLimiters(cfg RateLimitConfig) *rateLimiters {
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.RPS))
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &rateLimiters{
		cfg:     cfg,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// reserve takes a token for ip. It returns zero when the request may
// proceed, otherwise how long the client should wait.
func (r *rateLimiters) reserve(ip string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cl, ok := r.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(r.cfg.RPS), r.cfg.Burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = now
	r.cleanup(now)

	res := cl.limiter.ReserveN(now, 1)
	if !res.OK() {
		return r.cfg.IdleTTL
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return delay
	}
	return 0
}

// cleanup runs at most once per IdleTTL. Caller holds mu.
func (r *rateLimiters) cleanup(now time.Time) {
	if now.Sub(r.lastCleanup) < r.cfg.IdleTTL {
		return
	}
	r.lastCleanup = now
	for ip, cl := range r.clients {
		if now.Sub(cl.lastSeen) > r.cfg.IdleTTL {
			delete(r.clients, ip)
		}
	}
}

// RateLimit rejects clients exceeding cfg with 429 RATE_LIMITED and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newRateLimiters(cfg)

	return func(c *gin.Context) {
		wait := limiters.reserve(c.ClientIP())
		if wait > 0 {
			err := apperror.NewRateLimited(wait)
			c.Header("Retry-After", strconv.Itoa(err.Details["retry_after_seconds"].(int)))
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
