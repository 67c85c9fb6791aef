// Package ratelimit bounds how fast a single client may call the prediction API.
package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/loanrisk/internal/config"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// TokenBucket implements the token bucket algorithm.
// It is safe for concurrent use.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64 // maximum number of tokens
	tokens     float64 // current number of tokens
	rate       float64 // tokens added per second
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket creates a full bucket holding capacity tokens that refills at rate tokens per second.
func NewTokenBucket(capacity, rate float64) *TokenBucket {
	return newTokenBucket(capacity, rate, time.Now)
}

func newTokenBucket(capacity, rate float64, now func() time.Time) *TokenBucket {
	if capacity <= 0 {
		capacity = float64(constants.DefaultRateLimitBurst)
	}
	if rate <= 0 {
		rate = float64(constants.DefaultRateLimitPerMinute) / 60.0
	}
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		rate:       rate,
		lastRefill: now(),
		now:        now,
	}
}

// Take consumes one token. When the bucket is empty it reports false and
// how long the caller has to wait for the next token.
func (tb *TokenBucket) Take() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	missing := 1 - tb.tokens
	return false, time.Duration(missing / tb.rate * float64(time.Second))
}

// Available returns the current number of tokens.
func (tb *TokenBucket) Available() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// refill must be called with the lock held.
func (tb *TokenBucket) refill() {
	now := tb.now()
	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// ClientLimiter keeps one token bucket per client key. Buckets of clients
// that stay quiet long enough to refill completely are evicted.
type ClientLimiter struct {
	mu       sync.Mutex
	buckets  *gocache.Cache
	capacity float64
	rate     float64
	idle     time.Duration
	now      func() time.Time
}

// NewClientLimiter builds a limiter from the rate_limit configuration section.
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	capacity := float64(cfg.Burst)
	if capacity <= 0 {
		capacity = float64(constants.DefaultRateLimitBurst)
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = constants.DefaultRateLimitPerMinute
	}
	rate := float64(perMinute) / 60.0

	// a bucket idle for this long is full again, so forgetting it changes nothing
	idle := time.Duration(capacity/rate*float64(time.Second)) + time.Second

	return &ClientLimiter{
		buckets:  gocache.New(idle, 2*idle),
		capacity: capacity,
		rate:     rate,
		idle:     idle,
		now:      time.Now,
	}
}

// Allow takes a token from the bucket of key.
func (l *ClientLimiter) Allow(key string) (bool, time.Duration) {
	return l.bucket(key).Take()
}

// Clients returns how many client buckets are currently tracked.
func (l *ClientLimiter) Clients() int {
	return l.buckets.ItemCount()
}

func (l *ClientLimiter) bucket(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		tb := v.(*TokenBucket)
		l.buckets.Set(key, tb, l.idle)
		return tb
	}
	tb := newTokenBucket(l.capacity, l.rate, l.now)
	l.buckets.Set(key, tb, l.idle)
	return tb
}

//Personal.AI order the ending
