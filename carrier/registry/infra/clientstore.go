package infra

import (
	"context"
	"sync"
	"time"

	"carrier-gateway/carrier/registry/domain"

	"golang.org/x/time/rate"
)

// ClientStore mantém um token bucket (x/time/rate) por cliente da API HTTP,
// com limpeza periódica dos clientes inativos.
type ClientStore struct {
	mu           sync.Mutex
	entries      map[string]*clientEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ClientStoreOption func(*ClientStore)

func WithIdleTTL(d time.Duration) ClientStoreOption {
	return func(s *ClientStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) ClientStoreOption {
	return func(s *ClientStore) { s.cleanupEvery = d }
}

func NewClientStore(rps float64, burst int, opts ...ClientStoreOption) *ClientStore {
	s := &ClientStore{
		entries:      make(map[string]*clientEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClientStore) RPS() float64 { return float64(s.rps) }
func (s *ClientStore) Burst() int   { return s.burst }

// Get implementa domain.LimiterStore.
func (s *ClientStore) Get(key domain.Key) domain.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[string(key)]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[string(key)] = &clientEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *ClientStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia a limpeza periódica. Pare cancelando o contexto.
func (s *ClientStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
