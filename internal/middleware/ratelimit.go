package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/ratelimit"
)

// TenantRateLimiter throttles a per-tenant-path operation to at most rps
// requests per second, one limiter per tenant created lazily on first
// use. Intended for expensive, rarely-needed operations like a global
// recompute rather than the regular swipe/vote path.
type TenantRateLimiter struct {
	rps      int
	mu       sync.Mutex
	limiters map[string]ratelimit.Limiter
}

// NewTenantRateLimiter builds a limiter allowing rps requests per second
// per tenant.
func NewTenantRateLimiter(rps int) *TenantRateLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &TenantRateLimiter{rps: rps, limiters: make(map[string]ratelimit.Limiter)}
}

func (t *TenantRateLimiter) limiterFor(tenantID string) ratelimit.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[tenantID]
	if !ok {
		l = ratelimit.New(t.rps)
		t.limiters[tenantID] = l
	}
	return l
}

// Limit returns gin middleware that blocks the request goroutine until
// the named path param's tenant's token bucket admits the next request,
// then proceeds. Requests queue rather than fail, so this belongs on
// low-traffic, expensive routes rather than the regular swipe/vote path.
func (t *TenantRateLimiter) Limit(tenantParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param(tenantParam)
		if tenantID == "" {
			c.Next()
			return
		}
		t.limiterFor(tenantID).Take()
		c.Next()
	}
}
