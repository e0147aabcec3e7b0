package cache

import (
	"sync"
	"time"
)

// DefaultMaxAge is the longest a daily value is served before it is stale,
// even if the UTC date has not changed.
const DefaultMaxAge = 24 * time.Hour

// Status is a point-in-time view of a Daily cache.
type Status struct {
	Fresh      bool      `json:"fresh"`
	HasValue   bool      `json:"hasValue"`
	ComputedAt time.Time `json:"computedAt"`
}

type options struct {
	now    func() time.Time
	maxAge time.Duration
}

type Option func(*options)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithMaxAge(maxAge time.Duration) Option {
	return func(o *options) {
		o.maxAge = maxAge
	}
}

// Daily holds one value computed at most once per UTC calendar day. It is
// Fresh until the UTC date rolls over, the value reaches maxAge, or it is
// invalidated. Invalidation keeps the value so it can still be served while a
// replacement is computed.
type Daily[T any] struct {
	mu          sync.RWMutex
	value       T
	computedAt  time.Time
	hasValue    bool
	invalidated bool
	opts        options
}

func NewDaily[T any](opts ...Option) *Daily[T] {
	o := options{now: time.Now, maxAge: DefaultMaxAge}
	for _, opt := range opts {
		opt(&o)
	}
	return &Daily[T]{opts: o}
}

// Now returns the cache's notion of the current time.
func (c *Daily[T]) Now() time.Time {
	return c.opts.now()
}

// Get returns the cached value and when it was computed. ok is false when
// nothing has been stored yet.
func (c *Daily[T]) Get() (value T, computedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.computedAt, c.hasValue
}

func (c *Daily[T]) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.staleLocked(c.opts.now())
}

func (c *Daily[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		Fresh:      !c.staleLocked(c.opts.now()),
		HasValue:   c.hasValue,
		ComputedAt: c.computedAt,
	}
}

// Store replaces the cached value wholesale and clears any invalidation.
func (c *Daily[T]) Store(value T, computedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.computedAt = computedAt
	c.hasValue = true
	c.invalidated = false
}

// Invalidate marks the cache stale without dropping the current value.
func (c *Daily[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = true
}

func (c *Daily[T]) staleLocked(now time.Time) bool {
	if !c.hasValue || c.invalidated {
		return true
	}
	return IsStaleAt(c.computedAt, now, c.opts.maxAge)
}

// IsStaleAt reports whether a value computed at computedAt is stale at now:
// either maxAge has elapsed or the UTC calendar date differs.
func IsStaleAt(computedAt, now time.Time, maxAge time.Duration) bool {
	if now.Sub(computedAt) >= maxAge {
		return true
	}
	return !sameUTCDay(computedAt, now)
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
