// Package ratelimit caps how many actions a key (usually "<purpose>:<ip>")
// may perform inside a fixed window. Every implementation fails open: an
// internal fault yields an allowed Decision, never an error.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dfw-design-build/leadintake/pkg/logging"
)

const (
	// Window is how long a key's counter lives before it resets wholesale.
	Window = 10 * time.Minute
	// MaxRequests is the number of allowed actions per key per Window.
	MaxRequests = 5
)

// Decision is the outcome of a rate-limit check. RetryAfter is only set when
// Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RetryAfterMs returns RetryAfter in whole milliseconds, or 0 when allowed.
func (d Decision) RetryAfterMs() int64 {
	if d.Allowed {
		return 0
	}
	return d.RetryAfter.Milliseconds()
}

func allow() Decision { return Decision{Allowed: true} }

func deny(retryAfter time.Duration) Decision {
	return Decision{Allowed: false, RetryAfter: retryAfter}
}

// Limiter decides whether the action identified by key may proceed now.
type Limiter interface {
	Check(ctx context.Context, key string) Decision
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. Entries are replaced lazily
// once their window has passed and are never swept, so the map grows with
// the number of distinct keys seen over the process lifetime.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	logger  *logging.Logger
}

// Option configures a MemoryLimiter.
type Option func(*MemoryLimiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger used to report fail-open events.
func WithLogger(logger *logging.Logger) Option {
	return func(l *MemoryLimiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewMemoryLimiter creates an empty in-memory limiter.
func NewMemoryLimiter(opts ...Option) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check implements Limiter.
func (l *MemoryLimiter) Check(ctx context.Context, key string) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("rate limiter failed open", "key", key, "error", fmt.Sprint(r))
			d = allow()
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(Window)}
		return allow()
	}
	if e.count >= MaxRequests {
		return deny(e.resetAt.Sub(now))
	}
	e.count++
	return allow()
}

// Len reports how many keys are tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var _ Limiter = (*MemoryLimiter)(nil)
