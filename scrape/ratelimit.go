package scrape

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ZoneLimiter provides per-zone rate limiting using token buckets. Each
// zone gets its own limiter, so concurrent requests to different zones
// proceed independently while requests within a zone are throttled.
type ZoneLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewZoneLimiter creates a ZoneLimiter with the given requests-per-second
// limit per zone. Burst is 1: no bursting allowed.
func NewZoneLimiter(rps float64) *ZoneLimiter {
	return &ZoneLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the zone.
// Returns an error if the context is canceled before the wait completes.
func (z *ZoneLimiter) Wait(ctx context.Context, zone string) error {
	z.mu.Lock()
	limiter, ok := z.limiters[zone]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(z.rps), 1)
		z.limiters[zone] = limiter
	}
	z.mu.Unlock()

	return limiter.Wait(ctx)
}
