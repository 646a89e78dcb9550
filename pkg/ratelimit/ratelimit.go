// Package ratelimit provides a per-key token-bucket limiter for throttling
// command invocations. Each key (typically a user ID) gets its own bucket;
// idle buckets are evicted so the map does not grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerUser limits actions per key. Thread-safe.
type PerUser struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit rate.Limit
	burst int

	lastSweep time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

const (
	sweepEvery = 5 * time.Minute
	idleAfter  = 10 * time.Minute
)

// NewPerUser returns a limiter allowing perMinute actions per key, with a
// burst of up to burst actions.
func NewPerUser(perMinute, burst int) *PerUser {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &PerUser{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow reports whether the action for key may proceed now.
func (p *PerUser) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastSweep) > sweepEvery {
		p.sweep(now)
	}

	b, ok := p.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(p.limit, p.burst)}
		p.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.Allow()
}

func (p *PerUser) sweep(now time.Time) {
	for key, b := range p.buckets {
		if now.Sub(b.lastSeen) > idleAfter {
			delete(p.buckets, key)
		}
	}
	p.lastSweep = now
}
