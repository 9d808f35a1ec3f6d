package infra

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

const (
	DefaultCacheCapacity = 1000
	DefaultSweepEvery    = 10 * time.Minute
)

// ResponseCache é um cache com TTL por entrada e capacidade limitada.
//
// Ao passar da capacidade, as entradas inseridas há mais tempo saem primeiro
// (ordem de inserção, não LRU). Um janitor remove as expiradas periodicamente.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // frente = inserida há mais tempo
	capacity int

	sweepEvery time.Duration
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	key       string
	rec       domain.CarrierRecord
	createdAt time.Time
	ttl       time.Duration
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) >= e.ttl
}

type CacheOption func(*ResponseCache)

func WithCapacity(n int) CacheOption {
	return func(c *ResponseCache) { c.capacity = n }
}

func WithSweepEvery(d time.Duration) CacheOption {
	return func(c *ResponseCache) { c.sweepEvery = d }
}

func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *ResponseCache) { c.now = now }
}

func NewResponseCache(opts ...CacheOption) *ResponseCache {
	c := &ResponseCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		capacity:   DefaultCacheCapacity,
		sweepEvery: DefaultSweepEvery,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.capacity <= 0 {
		c.capacity = DefaultCacheCapacity
	}
	return c
}

// Get devolve uma cópia do registro. Entrada vencida conta como miss e é
// removida na hora.
func (c *ResponseCache) Get(key string) (domain.CarrierRecord, bool) {
	now := c.now()

	c.mu.Lock()
	el, ok := c.entries[key]
	if ok && el.Value.(*cacheEntry).expired(now) {
		c.removeLocked(el)
		ok = false
	}
	var rec domain.CarrierRecord
	if ok {
		rec = el.Value.(*cacheEntry).rec.Clone()
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return domain.CarrierRecord{}, false
	}
	c.hits.Add(1)
	return rec, true
}

// Put insere ou substitui. Uma substituição volta para o fim da fila, como
// uma inserção nova.
func (c *ResponseCache) Put(key string, rec domain.CarrierRecord, ttl time.Duration) {
	ent := &cacheEntry{key: key, rec: rec.Clone(), createdAt: c.now(), ttl: ttl}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	c.entries[key] = c.order.PushBack(ent)

	for c.order.Len() > c.capacity {
		c.removeLocked(c.order.Front())
	}
}

// Clear esvazia o cache e zera os contadores de hit/miss.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResponseCache) Stats() domain.CacheStats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses) * 100
	}
	return domain.CacheStats{
		Size:        c.Len(),
		HitRate:     rate,
		TotalHits:   hits,
		TotalMisses: misses,
	}
}

// Sweep remove todas as entradas vencidas e retorna quantas saíram.
func (c *ResponseCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*cacheEntry).expired(now) {
			c.removeLocked(el)
			removed++
		}
		el = next
	}
	return removed
}

// StartJanitor inicia uma goroutine que limpa entradas vencidas periodicamente,
// mesmo as que nunca mais forem consultadas. Pare cancelando o contexto.
func (c *ResponseCache) StartJanitor(ctx context.Context) {
	if c.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(c.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.Sweep()
			}
		}
	}()
}

func (c *ResponseCache) removeLocked(el *list.Element) {
	ent := el.Value.(*cacheEntry)
	delete(c.entries, ent.key)
	c.order.Remove(el)
}
