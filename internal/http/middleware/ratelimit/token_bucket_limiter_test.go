package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucket_BurstThenRefill(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	l := NewTokenBucketPerWindow(clock, 2, time.Second, 0, 0)

	require.True(t, l.Allow("ip"))
	require.True(t, l.Allow("ip"))
	require.False(t, l.Allow("ip"))

	clock.Advance(time.Second)
	require.True(t, l.Allow("ip"))
}

func TestTokenBucket_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	l := NewTokenBucketPerWindow(clock, 1, time.Second, 0, 0)

	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
}

func TestTokenBucket_MaxBuckets(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	l := NewTokenBucketLimiter(clock, Config{Rate: 1, Burst: 1, MaxBuckets: 1})

	require.True(t, l.Allow("a"))
	// at capacity, new keys are rejected outright
	require.False(t, l.Allow("b"))
	clock.Advance(time.Second)
	require.True(t, l.Allow("a"))
}

func TestTokenBucket_TTLCleanup(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	l := NewTokenBucketLimiter(clock, Config{Rate: 1, Burst: 1, TTL: time.Minute, MaxBuckets: 1})

	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("b"))

	// idle bucket is evicted, freeing a slot
	clock.Advance(3 * time.Minute)
	require.True(t, l.Allow("b"))
}

func TestTokenBucket_Defaults(t *testing.T) {
	t.Parallel()

	l := NewTokenBucketLimiter(nil, Config{})
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
}
