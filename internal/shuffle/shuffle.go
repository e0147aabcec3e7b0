// Package shuffle provides Fisher-Yates shuffles over an injectable random
// source so callers can reproduce an ordering from a fixed seed.
package shuffle

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is a goroutine-safe wrapper around *rand.Rand.
type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(seed int64) *Rand {
	return &Rand{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded returns a Rand seeded from the wall clock.
func NewTimeSeeded() *Rand {
	return New(time.Now().UnixNano())
}

func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// Slice shuffles items in place.
func Slice[T any](r *Rand, items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(items) - 1; i > 0; i-- {
		j := r.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Copy returns a shuffled copy of items and leaves the input untouched.
func Copy[T any](r *Rand, items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	Slice(r, result)
	return result
}
