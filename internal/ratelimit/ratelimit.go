// Package ratelimit implements the token bucket applied to each
// connection's inbound messages.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	rate     float64
	burst    int
	tokens   float64
	lastSeen time.Time
	mu       sync.Mutex
}

// NewLimiter returns a bucket that refills at rate tokens per second
// up to burst. The bucket starts full.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:     rate,
		burst:    burst,
		tokens:   float64(burst),
		lastSeen: time.Now(),
	}
}

// Allow consumes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.lastSeen).Seconds() * l.rate
	l.lastSeen = now
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}
