// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// bucket is a single token bucket. Tokens refill continuously at refillRate
// per second up to capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// take refills then consumes one token if available.
func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// status returns remaining tokens and when the bucket will be full again.
func (b *bucket) status() (remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	remaining = int(b.tokens)
	resetTime = b.lastRefill
	if b.tokens < float64(b.capacity) {
		deficit := float64(b.capacity) - b.tokens
		resetTime = b.lastRefill.Add(time.Duration(deficit / b.refillRate * float64(time.Second)))
	}
	return remaining, resetTime
}

// refill must be called with b.mu held.
func (b *bucket) refill() {
	now := time.Now()
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// Info describes the outcome of a rate limit check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter keys token buckets by client and endpoint tier.
type Limiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	lastAccess map[string]time.Time

	config      *Config
	cleanupTick *time.Ticker
	cleanupStop chan struct{}
}

// NewLimiter creates a limiter. A nil config loads defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	l := &Limiter{
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
		config:     config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTick = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow reports whether a request from clientID against method+path may
// proceed, consuming a token when it does.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Trusted[clientID] {
		return true, Info{Allowed: true}
	}

	tier := matchTier(path, method, l.config.Tiers)
	if tier == nil {
		tier = &Tier{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if tier.Limit <= 0 {
		// Unlimited tier, e.g. health checks
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + method + ":" + tier.Path
	b := l.getBucket(key, tier)

	l.mu.Lock()
	l.lastAccess[key] = time.Now()
	l.mu.Unlock()

	allowed := b.take()
	remaining, resetTime := b.status()

	info := Info{
		Allowed:   allowed,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = max(time.Until(resetTime), 0)
	}
	return allowed, info
}

// matchTier returns the first tier whose path prefix and method match.
func matchTier(path, method string, tiers []Tier) *Tier {
	for i := range tiers {
		t := &tiers[i]
		if t.Method != "" && t.Method != method {
			continue
		}
		if strings.HasPrefix(path, t.Path) {
			return t
		}
	}
	return nil
}

func (l *Limiter) getBucket(key string, tier *Tier) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	capacity := tier.Burst
	if capacity <= 0 {
		capacity = tier.Limit
	}
	b = newBucket(capacity, float64(tier.Limit)/tier.Window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.buckets[key]; ok {
		return existing
	}
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTick.C:
			l.evictStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// evictStale drops buckets idle for over an hour.
func (l *Limiter) evictStale() {
	cutoff := time.Now().Add(-time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTick != nil {
		l.cleanupTick.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
