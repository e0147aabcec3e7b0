package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestLimiter(limit int64, window time.Duration) (*Limiter, *clock) {
	c := &clock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	counter := NewMemoryCounter()
	counter.now = c.Now
	l := New(counter, limit, window)
	l.now = c.Now
	return l, c
}

func TestCheckAllowsUpToLimit(t *testing.T) {
	l, c := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		result, err := l.Check(ctx, "10.0.0.1", "refresh")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3-i, result.Remaining)
		assert.Equal(t, int64(3), result.Limit)
		assert.Equal(t, c.now.Add(time.Minute).Unix(), result.ResetAt)
	}

	result, err := l.Check(ctx, "10.0.0.1", "refresh")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, int64(0), result.Remaining)
}

func TestCheckKeysByClientAndAction(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	first, err := l.Check(ctx, "10.0.0.1", "refresh")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	other, err := l.Check(ctx, "10.0.0.2", "refresh")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	action, err := l.Check(ctx, "10.0.0.1", "poem")
	require.NoError(t, err)
	assert.True(t, action.Allowed)
}

func TestCheckWindowResets(t *testing.T) {
	l, c := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := l.Check(ctx, "10.0.0.1", "refresh")
	require.NoError(t, err)

	c.now = c.now.Add(30 * time.Second)
	blocked, err := l.Check(ctx, "10.0.0.1", "refresh")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)
	assert.Equal(t, c.now.Add(30*time.Second).Unix(), blocked.ResetAt)

	c.now = c.now.Add(30 * time.Second)
	allowed, err := l.Check(ctx, "10.0.0.1", "refresh")
	require.NoError(t, err)
	assert.True(t, allowed.Allowed)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingCounter) TTL(context.Context, string) (time.Duration, error) {
	return 0, nil
}

func TestCheckCounterError(t *testing.T) {
	l := New(failingCounter{}, 5, time.Minute)

	_, err := l.Check(context.Background(), "10.0.0.1", "refresh")

	assert.ErrorContains(t, err, "connection refused")
}

func TestMemoryCounterTTLForMissingKey(t *testing.T) {
	ttl, err := NewMemoryCounter().TTL(context.Background(), "rate:nobody:refresh")
	require.NoError(t, err)
	assert.Negative(t, ttl)
}
