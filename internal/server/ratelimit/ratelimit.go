// Package ratelimit provides per-client request limiting with token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// bucket is a single token bucket. Tokens refill continuously at a
// fixed rate up to the burst capacity.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	updated  time.Time
	lastSeen time.Time
}

func newBucket(capacity int, rate float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		updated:  now,
		lastSeen: now,
	}
}

// refill credits tokens for elapsed time. Callers must hold mu.
func (b *bucket) refill(now time.Time) {
	b.tokens = math.Min(b.capacity, b.tokens+now.Sub(b.updated).Seconds()*b.rate)
	b.updated = now
	b.lastSeen = now
}

// take consumes one token if available.
func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// snapshot reports remaining tokens and when the bucket is full again.
func (b *bucket) snapshot() (remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)

	remaining = int(b.tokens)
	if b.tokens >= b.capacity {
		return remaining, now
	}
	wait := (b.capacity - b.tokens) / b.rate
	return remaining, now.Add(time.Duration(wait * float64(time.Second)))
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Info describes the limit state reported back to the client.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter tracks a token bucket per client, endpoint, and method.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	done    chan struct{}
}

// NewLimiter creates a rate limiter. A nil config enables the limiter
// with a 1000 requests per minute default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.done = make(chan struct{})
		go l.reap(config.CleanupInterval)
	}

	return l
}

// Allow reports whether a request from clientID to the given endpoint
// and method fits within its limit, consuming one token when it does.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	limit := matchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if limit == nil {
		limit = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}
	if limit.Limit <= 0 {
		// Unlimited endpoint, e.g. the health check.
		return true, Info{Allowed: true}
	}

	b := l.bucketFor(clientID+":"+endpoint+":"+method, limit)
	allowed := b.take()
	remaining, reset := b.snapshot()

	info := Info{
		Allowed:   allowed,
		Limit:     limit.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		info.RetryAfter = max(time.Until(reset), 0)
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, limit *EndpointConfig) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		capacity := limit.Burst
		if capacity <= 0 {
			capacity = limit.Limit
		}
		b = newBucket(capacity, float64(limit.Limit)/limit.Window.Seconds())
		l.buckets[key] = b
	}
	return b
}

// reap periodically drops buckets idle for over an hour.
func (l *Limiter) reap(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropIdle(time.Now().Add(-time.Hour))
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the background cleanup goroutine.
func (l *Limiter) Stop() {
	if l.done != nil {
		close(l.done)
		l.done = nil
	}
}
