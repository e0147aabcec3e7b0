// Package limiter implements fixed-window request limits keyed by client and
// action. Counters live in Redis when it is configured and in process memory
// otherwise.
package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Counter increments a key whose expiry is set when it is created.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func New(counter Counter, limit int64, window time.Duration) *Limiter {
	return &Limiter{counter: counter, limit: limit, window: window, now: time.Now}
}

func (l *Limiter) Limit() int64 {
	return l.limit
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.counter.Incr(ctx, key, l.window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.counter.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	// Redis reports -1 for a key without expiry.
	if ttl < 0 {
		ttl = l.window
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= l.limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl).Unix(),
		Limit:     l.limit,
	}, nil
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounter is a Counter for a single process.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		m.sweep(now)
		entry = memoryEntry{expiresAt: now.Add(ttl)}
	}
	entry.count++
	m.entries[key] = entry
	return entry.count, nil
}

func (m *MemoryCounter) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return -2 * time.Second, nil
	}
	return entry.expiresAt.Sub(m.now()), nil
}

// sweep drops expired windows. Callers hold m.mu.
func (m *MemoryCounter) sweep(now time.Time) {
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}
