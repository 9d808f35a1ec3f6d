package domain

import "time"

// IdentifierKind separa os espaços de chave do cache (DOT x MC).
type IdentifierKind string

const (
	KindPrimary   IdentifierKind = "dot"
	KindSecondary IdentifierKind = "mc"
)

type DataSource string

const (
	SourceRegistry DataSource = "REGISTRY"
	SourceCache    DataSource = "CACHE"
	SourceMock     DataSource = "MOCK"
)

type LookupResult struct {
	Success      bool           `json:"success"`
	Data         *CarrierRecord `json:"data,omitempty"`
	Error        string         `json:"error,omitempty"`
	ErrorKind    ErrorKind      `json:"errorKind,omitempty"`
	Cached       bool           `json:"cached"`
	SearchTimeMs int64          `json:"searchTimeMs"`
	DataSource   DataSource     `json:"dataSource"`
}

type BatchItem struct {
	PrimaryID   string `json:"primaryId,omitempty" validate:"omitempty,max=32"`
	SecondaryID string `json:"secondaryId,omitempty" validate:"omitempty,max=32"`
}

type BatchSummary struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

type BatchResult struct {
	Results []LookupResult `json:"results"`
	Summary BatchSummary   `json:"summary"`
}

type CacheStats struct {
	Size        int     `json:"size"`
	HitRate     float64 `json:"hitRate"`
	TotalHits   int64   `json:"totalHits"`
	TotalMisses int64   `json:"totalMisses"`
}

// WindowUsage descreve um horizonte do limitador (minuto/hora/dia).
type WindowUsage struct {
	Window      string        `json:"window"`
	Duration    time.Duration `json:"duration"`
	Count       int64         `json:"count"`
	Limit       int64         `json:"limit"`
	Remaining   int64         `json:"remaining"`
	WindowStart time.Time     `json:"windowStart"`
}

type ServiceState string

const (
	StateHealthy       ServiceState = "HEALTHY"
	StateRateLimited   ServiceState = "RATE_LIMITED"
	StateNotConfigured ServiceState = "NOT_CONFIGURED"
)

type SystemStatus struct {
	Status     ServiceState    `json:"status"`
	Configured bool            `json:"configured"`
	APIKey     string          `json:"apiKey,omitempty"`
	Metrics    MetricsSnapshot `json:"metrics"`
	RateLimit  []WindowUsage   `json:"rateLimit"`
	Throttled  bool            `json:"throttled"`
	Cache      CacheStats      `json:"cache"`
}

type HealthReport struct {
	Healthy              bool            `json:"healthy"`
	Status               ServiceState    `json:"status"`
	Configured           bool            `json:"configured"`
	ConnectionTestPassed bool            `json:"connectionTestPassed"`
	Metrics              MetricsSnapshot `json:"metrics"`
}
