// Package ratelimit implements the admission gate guarding the intake
// endpoint: at most one admitted request per client key per interval.
package ratelimit

import (
	"sync"
	"time"

	"github.com/midtrans-payment-reconciler/internal/config"
)

// Gate tracks the last admitted request per client key in a bounded,
// mutex-guarded map. It is a minimum-inter-arrival-time gate, not a token
// bucket: unused quota does not accumulate.
type Gate struct {
	mu          sync.Mutex
	lastAdmit   map[string]time.Time
	minInterval time.Duration
	maxClients  int
	now         func() time.Time
}

// NewGate creates an admission gate from the rate limit configuration
func NewGate(cfg *config.RateLimitConfig) *Gate {
	return &Gate{
		lastAdmit:   make(map[string]time.Time),
		minInterval: cfg.MinInterval,
		maxClients:  cfg.MaxClients,
		now:         time.Now,
	}
}

// Admit reports whether a request from the client key may proceed and, on
// admission, records the admission time. A key is admitted when its previous
// admission is at least the configured interval in the past.
func (g *Gate) Admit(clientKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	last, seen := g.lastAdmit[clientKey]
	if seen && now.Sub(last) < g.minInterval {
		return false
	}

	if !seen && len(g.lastAdmit) >= g.maxClients {
		g.evict(now)
	}

	g.lastAdmit[clientKey] = now
	return true
}

// Len returns the number of tracked client keys
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lastAdmit)
}

// evict drops every key idle past the interval; those entries can never deny
// another request. If nothing is stale, the oldest entry goes instead so the
// map never outgrows its capacity.
func (g *Gate) evict(now time.Time) {
	var oldestKey string
	var oldestTime time.Time

	for key, last := range g.lastAdmit {
		if now.Sub(last) >= g.minInterval {
			delete(g.lastAdmit, key)
			continue
		}
		if oldestKey == "" || last.Before(oldestTime) {
			oldestKey = key
			oldestTime = last
		}
	}

	if len(g.lastAdmit) >= g.maxClients && oldestKey != "" {
		delete(g.lastAdmit, oldestKey)
	}
}
