package infra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-gateway/carrier/registry/domain"
)

func sampleRecord(dot string) domain.CarrierRecord {
	return domain.CarrierRecord{
		DOTNumber:      dot,
		LegalName:      "Acme Freight",
		EquipmentTypes: []string{"Van"},
		Risk:           domain.RiskAssessment{Score: 10, Level: domain.RiskLow, Recommendations: []string{"ok"}},
	}
}

func TestResponseCache_PutGetRoundTrip(t *testing.T) {
	c := NewResponseCache()
	c.Put("dot:1", sampleRecord("1"), time.Hour)

	got, ok := c.Get("dot:1")
	require.True(t, ok)
	assert.Equal(t, sampleRecord("1"), got)

	_, ok = c.Get("dot:2")
	assert.False(t, ok)

	st := c.Stats()
	assert.Equal(t, 1, st.Size)
	assert.Equal(t, int64(1), st.TotalHits)
	assert.Equal(t, int64(1), st.TotalMisses)
	assert.InDelta(t, 50.0, st.HitRate, 0.0001)
}

func TestResponseCache_ReturnsCopies(t *testing.T) {
	c := NewResponseCache()
	rec := sampleRecord("1")
	c.Put("dot:1", rec, time.Hour)
	rec.EquipmentTypes[0] = "changed after put"

	got, _ := c.Get("dot:1")
	got.Risk.Recommendations[0] = "changed after get"

	again, _ := c.Get("dot:1")
	assert.Equal(t, []string{"Van"}, again.EquipmentTypes)
	assert.Equal(t, []string{"ok"}, again.Risk.Recommendations)
}

func TestResponseCache_ExpiredEntryIsMissAndRemoved(t *testing.T) {
	clock := newFakeClock()
	c := NewResponseCache(WithCacheClock(clock.Now))
	c.Put("dot:1", sampleRecord("1"), time.Hour)

	clock.Advance(59 * time.Minute)
	_, ok := c.Get("dot:1")
	require.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("dot:1")
	assert.False(t, ok, "entry at exactly ttl age is expired")
	assert.Zero(t, c.Len())
}

func TestResponseCache_EvictsOldestInserted(t *testing.T) {
	c := NewResponseCache(WithCapacity(3))
	for i := 1; i <= 3; i++ {
		c.Put(fmt.Sprintf("dot:%d", i), sampleRecord(fmt.Sprint(i)), time.Hour)
	}

	// leitura não muda a ordem (não é LRU)
	_, _ = c.Get("dot:1")
	c.Put("dot:4", sampleRecord("4"), time.Hour)

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("dot:1")
	assert.False(t, ok)
	for _, k := range []string{"dot:2", "dot:3", "dot:4"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestResponseCache_OverwriteMovesToBack(t *testing.T) {
	c := NewResponseCache(WithCapacity(2))
	c.Put("dot:1", sampleRecord("1"), time.Hour)
	c.Put("dot:2", sampleRecord("2"), time.Hour)

	updated := sampleRecord("1")
	updated.LegalName = "Acme Freight II"
	c.Put("dot:1", updated, time.Hour)
	c.Put("dot:3", sampleRecord("3"), time.Hour)

	_, ok := c.Get("dot:2")
	assert.False(t, ok)
	got, ok := c.Get("dot:1")
	require.True(t, ok)
	assert.Equal(t, "Acme Freight II", got.LegalName)
}

func TestResponseCache_SweepRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewResponseCache(WithCacheClock(clock.Now))
	c.Put("short", sampleRecord("1"), time.Minute)
	c.Put("long", sampleRecord("2"), time.Hour)

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestResponseCache_JanitorSweepsInBackground(t *testing.T) {
	clock := newFakeClock()
	c := NewResponseCache(WithCacheClock(clock.Now), WithSweepEvery(5*time.Millisecond))
	c.Put("dot:1", sampleRecord("1"), time.Minute)
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestResponseCache_ClearResetsEntriesAndCounters(t *testing.T) {
	c := NewResponseCache()
	c.Put("dot:1", sampleRecord("1"), time.Hour)
	_, _ = c.Get("dot:1")
	_, _ = c.Get("dot:9")

	c.Clear()
	assert.Equal(t, domain.CacheStats{}, c.Stats())
}

func TestResponseCache_EmptyStats(t *testing.T) {
	assert.Equal(t, domain.CacheStats{}, NewResponseCache().Stats())
}
