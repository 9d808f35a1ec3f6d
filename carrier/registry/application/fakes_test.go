package application

import (
	"context"
	"sync"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

// scriptedTransport devolve os erros de `errs` em ordem e, esgotados,
// um registro válido.
type scriptedTransport struct {
	mu         sync.Mutex
	errs       []error
	calls      []string
	configured bool
	block      bool
}

func (s *scriptedTransport) Lookup(ctx context.Context, kind domain.IdentifierKind, id string) (domain.CarrierRecord, error) {
	s.mu.Lock()
	s.calls = append(s.calls, CacheKey(kind, id))
	var err error
	if len(s.errs) > 0 {
		err, s.errs = s.errs[0], s.errs[1:]
	}
	block := s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return domain.CarrierRecord{}, ctx.Err()
	}
	if err != nil {
		return domain.CarrierRecord{}, err
	}
	return domain.CarrierRecord{
		DOTNumber:       id,
		LegalName:       "Scripted Freight",
		OperatingStatus: domain.StatusActive,
		SafetyRating:    domain.RatingSatisfactory,
		PowerUnits:      10,
		EquipmentTypes:  []string{"Van"},
	}, nil
}

func (s *scriptedTransport) Source() domain.DataSource {
	if s.configured {
		return domain.SourceRegistry
	}
	return domain.SourceMock
}

func (s *scriptedTransport) Configured() bool { return s.configured }

func (s *scriptedTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// quotaLimiter conta tentativas e nega a partir de `limit`.
type quotaLimiter struct {
	mu       sync.Mutex
	limit    int
	recorded int
	checked  int
}

func (q *quotaLimiter) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.checked++
	return q.recorded < q.limit
}

func (q *quotaLimiter) RecordAttempt() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recorded++
}

func (q *quotaLimiter) TryAcquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.checked++
	if q.recorded >= q.limit {
		return false
	}
	q.recorded++
	return true
}

func (q *quotaLimiter) Usage() []domain.WindowUsage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return []domain.WindowUsage{{
		Window: "minute", Count: int64(q.recorded), Limit: int64(q.limit),
		Remaining: int64(max(q.limit-q.recorded, 0)),
	}}
}

type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}
