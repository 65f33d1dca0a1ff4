// Package ratelimit provides client-side politeness limiting for
// upstream API hosts using a token bucket per host.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter hands out one token-bucket limiter per host. All hosts share
// the same rps/burst settings.
type Limiter struct {
	mu     sync.Mutex
	byHost map[string]*rate.Limiter
	rps    float64
	burst  int
}

// New creates a Limiter allowing rps requests per second with the given
// burst capacity per host.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		byHost: make(map[string]*rate.Limiter),
		rps:    rps,
		burst:  burst,
	}
}

func (l *Limiter) host(h string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.byHost[h]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.byHost[h] = lim
	}
	return lim
}

// Wait blocks until a request to host is allowed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.host(host).Wait(ctx)
}

// Allow reports whether a request to host may proceed immediately.
func (l *Limiter) Allow(host string) bool {
	return l.host(host).Allow()
}
