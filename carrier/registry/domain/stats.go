package domain

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeCacheHit Outcome = "cache_hit"
)

// LookupEvent representa o desfecho de uma consulta.
//
// Cuidado com cardinalidade: Identifier só deve virar chave/série quando o
// store estiver configurado para isso.
type LookupEvent struct {
	RequestID  string
	Kind       IdentifierKind
	Identifier string
	Outcome    Outcome
	Source     DataSource
	ErrorKind  ErrorKind
	Error      string
	Latency    time.Duration
	At         time.Time
}

// StatsStore é a estratégia de exportação de estatísticas (Redis, Prometheus...).
// O gateway trata erro como best-effort (não derruba a consulta).
type StatsStore interface {
	Record(ctx context.Context, ev LookupEvent) error
}

type MetricsSnapshot struct {
	TotalRequests      int64     `json:"totalRequests"`
	SuccessfulRequests int64     `json:"successfulRequests"`
	FailedRequests     int64     `json:"failedRequests"`
	CacheHits          int64     `json:"cacheHits"`
	CacheMisses        int64     `json:"cacheMisses"`
	AvgResponseTimeMs  float64   `json:"avgResponseTimeMs"`
	LastRequestTime    time.Time `json:"lastRequestTime,omitzero"`
	LastErrorTime      time.Time `json:"lastErrorTime,omitzero"`
	LastError          string    `json:"lastError,omitempty"`
}

// MetricsRecorder mantém os contadores cumulativos do processo.
type MetricsRecorder interface {
	StatsStore
	RecordCacheMiss()
	Snapshot() MetricsSnapshot
}
