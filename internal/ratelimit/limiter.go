package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a fixed-window quota per key, held in process memory.
// Each key gets its own bucket with its own lock, so distinct clients never
// contend with each other. Window expiry is evaluated lazily on access.
type Limiter struct {
	max     int
	window  time.Duration
	buckets sync.Map // key -> *bucket
	now     func() time.Time
}

type bucket struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// New creates a Limiter allowing max consumptions per window for each key.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow records one consumption for key. It reports whether the consumption
// fits the quota; when it does not, retryAfter is the time until the window
// resets, never less than one second.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	v, _ := l.buckets.LoadOrStore(key, &bucket{})
	b := v.(*bucket)

	now := l.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.windowStart.IsZero() || now.Sub(b.windowStart) >= l.window {
		b.windowStart = now
		b.count = 0
	}

	if b.count >= l.max {
		retryAfter = b.windowStart.Add(l.window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	b.count++
	return true, 0
}
