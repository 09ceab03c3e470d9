// Package ratelimit provides the sliding-window rate-limit
// interceptor.  The in-process window applies unless an external
// SharedStore is supplied.
package ratelimit

import (
	"sync"
	"time"
)

// bucket holds the recorded timestamps for one key.  Entries are
// appended in increasing time order, so pruning always happens at
// the front.
type bucket struct {
	mu     sync.Mutex
	stamps []time.Time
}

// Limiter enforces a sliding-window quota per key.  Buckets are
// created lazily on first use and never explicitly destroyed; the
// bucket table tolerates unbounded concurrent readers and writers,
// and distinct keys never contend with each other.
type Limiter struct {
	buckets sync.Map // string -> *bucket
	clock   func() time.Time
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{clock: time.Now}
}

// WithClock overrides the time source, mainly for tests.
func (l *Limiter) WithClock(clock func() time.Time) *Limiter {
	l.clock = clock
	return l
}

// Allow records one attempt against key.  Timestamps older than the
// window are dropped first; the attempt succeeds while fewer than
// maxRequests remain.
func (l *Limiter) Allow(key string, maxRequests int, window time.Duration) bool {
	now := l.clock()
	cutoff := now.Add(-window)

	value, _ := l.buckets.LoadOrStore(key, &bucket{})
	b := value.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	keep := 0
	for keep < len(b.stamps) && b.stamps[keep].Before(cutoff) {
		keep++
	}
	if keep > 0 {
		b.stamps = append(b.stamps[:0], b.stamps[keep:]...)
	}
	if len(b.stamps) >= maxRequests {
		return false
	}
	b.stamps = append(b.stamps, now)
	return true
}
