package infra

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
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

func TestWindowLimiter_MinuteWindowExhaustsAndRolls(t *testing.T) {
	clock := newFakeClock()
	l := NewWindowLimiter(DefaultPerMinute, DefaultPerHour, DefaultPerDay, WithLimiterClock(clock.Now))

	for i := 0; i < 60; i++ {
		require.True(t, l.Allow(), "attempt %d", i+1)
		l.RecordAttempt()
	}
	assert.False(t, l.Allow(), "61st attempt in the same minute must be denied")

	clock.Advance(59 * time.Second)
	assert.False(t, l.Allow())

	clock.Advance(time.Second)
	assert.True(t, l.Allow())

	usage := l.Usage()
	require.Len(t, usage, 3)
	assert.Equal(t, "minute", usage[0].Window)
	assert.Equal(t, int64(0), usage[0].Count)
	assert.Equal(t, int64(60), usage[0].Remaining)
	assert.Equal(t, clock.Now(), usage[0].WindowStart)

	assert.Equal(t, "hour", usage[1].Window)
	assert.Equal(t, int64(60), usage[1].Count)
	assert.Equal(t, int64(940), usage[1].Remaining)
	assert.Equal(t, "day", usage[2].Window)
	assert.Equal(t, int64(60), usage[2].Count)
}

func TestWindowLimiter_AnyWindowDenies(t *testing.T) {
	clock := newFakeClock()
	l := NewWindowLimiter(100, 3, 1000, WithLimiterClock(clock.Now))

	for i := 0; i < 3; i++ {
		l.RecordAttempt()
	}
	assert.False(t, l.Allow())

	// minuto virou, mas a hora ainda está cheia
	clock.Advance(2 * time.Minute)
	assert.False(t, l.Allow())

	clock.Advance(time.Hour)
	assert.True(t, l.Allow())
}

func TestWindowLimiter_AllowHasNoSideEffects(t *testing.T) {
	l := NewWindowLimiter(1, 10, 10)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow())
	}
	assert.Equal(t, int64(0), l.Usage()[0].Count)
}

func TestWindowLimiter_ConcurrentRecordsAreCounted(t *testing.T) {
	l := NewWindowLimiter(10000, 10000, 10000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.RecordAttempt()
			}
		}()
	}
	wg.Wait()

	for _, u := range l.Usage() {
		assert.Equal(t, int64(1000), u.Count, u.Window)
	}
}

func TestWindowLimiter_TryAcquireDeniedCountsNothing(t *testing.T) {
	clock := newFakeClock()
	l := NewWindowLimiter(2, 10, 10, WithLimiterClock(clock.Now))

	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())

	usage := l.Usage()
	assert.Equal(t, int64(2), usage[0].Count)
	assert.Equal(t, int64(2), usage[1].Count, "negada não conta na hora")
	assert.Equal(t, int64(2), usage[2].Count)

	clock.Advance(time.Minute)
	assert.True(t, l.TryAcquire())
	assert.Equal(t, int64(3), l.Usage()[1].Count)
}

func TestWindowLimiter_ConcurrentAcquireNeverExceedsLimit(t *testing.T) {
	const limit = 60
	l := NewWindowLimiter(limit, 1000, 10000)
	for i := 0; i < limit-1; i++ {
		require.True(t, l.TryAcquire())
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if l.TryAcquire() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, int64(limit), l.Usage()[0].Count)
	assert.False(t, l.Allow())
}
