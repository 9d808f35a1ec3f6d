package infra

import (
	"context"
	"sync"

	"carrier-gateway/carrier/registry/domain"
)

// MetricsRecorder guarda os contadores cumulativos em memória.
//
// Cache hits não entram em TotalRequests (nem na média de latência): só
// consultas que passaram pelo transporte, ou que falharam, contam como request.
type MetricsRecorder struct {
	mu   sync.Mutex
	snap domain.MetricsSnapshot
}

func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

func (m *MetricsRecorder) Record(_ context.Context, ev domain.LookupEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Outcome == domain.OutcomeCacheHit {
		m.snap.CacheHits++
		return nil
	}

	m.snap.TotalRequests++
	if ev.Outcome == domain.OutcomeSuccess {
		m.snap.SuccessfulRequests++
		m.snap.LastRequestTime = ev.At
	} else {
		m.snap.FailedRequests++
		m.snap.LastErrorTime = ev.At
		m.snap.LastError = ev.Error
		if m.snap.LastError == "" {
			m.snap.LastError = "unknown error"
		}
	}

	// média incremental: avg += (x - avg) / n
	latencyMs := float64(ev.Latency.Microseconds()) / 1000
	n := float64(m.snap.TotalRequests)
	m.snap.AvgResponseTimeMs += (latencyMs - m.snap.AvgResponseTimeMs) / n
	return nil
}

func (m *MetricsRecorder) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.CacheMisses++
}

func (m *MetricsRecorder) Snapshot() domain.MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
