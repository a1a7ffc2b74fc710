package provider

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// defaultSourceLimit is the per-source request rate. These sites ban
// aggressive clients quickly; one request per second is the safe floor.
const defaultSourceLimit rate.Limit = 1

// RateLimiterMap holds one rate.Limiter per source, created once at startup.
type RateLimiterMap struct {
	mu       sync.RWMutex
	limiters map[Name]*rate.Limiter
}

// NewRateLimiterMap creates rate limiters for every known source.
func NewRateLimiterMap() *RateLimiterMap {
	m := &RateLimiterMap{
		limiters: make(map[Name]*rate.Limiter),
	}
	for _, name := range AllNames() {
		m.limiters[name] = rate.NewLimiter(defaultSourceLimit, 1)
	}
	return m
}

// Wait blocks until the rate limiter for the given source allows a request,
// or the context is canceled.
func (m *RateLimiterMap) Wait(ctx context.Context, name Name) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
