package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"carrier-gateway/carrier/registry/domain"
)

const (
	DefaultCacheTTL         = 1 * time.Hour
	DefaultBatchConcurrency = 5
	DefaultBatchWaveDelay   = 100 * time.Millisecond
	// DefaultProbeID é um DOT conhecido (FedEx) usado no teste de conectividade.
	DefaultProbeID = "86803"
)

var errBatchItemEmpty = errors.New("either primaryId or secondaryId is required")

type GatewayConfig struct {
	Transport domain.Transport
	Cache     domain.Cache
	Limiter   domain.RateLimiter
	Metrics   domain.MetricsRecorder
	// Stats recebe cópia de cada evento (best-effort).
	Stats []domain.StatsStore

	CacheTTL         time.Duration
	BatchConcurrency int
	BatchWaveDelay   time.Duration
	ProbeID          string
	// APIKey só é usada (mascarada) no relatório de status.
	APIKey string

	ExecutorOptions []ExecutorOption
	Logger          *slog.Logger
	Now             func() time.Time
}

// Gateway orquestra cache, limitador, retry, score de risco e métricas.
// É criado uma vez na inicialização e injetado em quem precisar; não há estado global.
type Gateway struct {
	executor  *RetryExecutor
	transport domain.Transport
	cache     domain.Cache
	limiter   domain.RateLimiter
	metrics   domain.MetricsRecorder
	stats     []domain.StatsStore

	ttl         time.Duration
	concurrency int
	waveDelay   time.Duration
	probeID     string
	apiKey      string

	logger *slog.Logger
	now    func() time.Time
}

func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		transport:   cfg.Transport,
		cache:       cfg.Cache,
		limiter:     cfg.Limiter,
		metrics:     cfg.Metrics,
		stats:       cfg.Stats,
		ttl:         cfg.CacheTTL,
		concurrency: cfg.BatchConcurrency,
		waveDelay:   cfg.BatchWaveDelay,
		probeID:     cfg.ProbeID,
		apiKey:      cfg.APIKey,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
	if g.ttl <= 0 {
		g.ttl = DefaultCacheTTL
	}
	if g.concurrency <= 0 {
		g.concurrency = DefaultBatchConcurrency
	}
	if g.waveDelay <= 0 {
		g.waveDelay = DefaultBatchWaveDelay
	}
	if g.probeID == "" {
		g.probeID = DefaultProbeID
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.now == nil {
		g.now = time.Now
	}

	opts := append([]ExecutorOption{WithExecutorLogger(g.logger)}, cfg.ExecutorOptions...)
	g.executor = NewRetryExecutor(cfg.Transport, cfg.Limiter, opts...)
	return g
}

// Executor expõe o RetryExecutor (útil para inspecionar tentativas).
func (g *Gateway) Executor() *RetryExecutor { return g.executor }

func (g *Gateway) LookupByPrimaryID(ctx context.Context, id string) domain.LookupResult {
	return g.lookup(ctx, domain.KindPrimary, id)
}

func (g *Gateway) LookupBySecondaryID(ctx context.Context, id string) domain.LookupResult {
	return g.lookup(ctx, domain.KindSecondary, id)
}

func (g *Gateway) lookup(ctx context.Context, kind domain.IdentifierKind, raw string) domain.LookupResult {
	start := g.now()
	source := g.transport.Source()

	id, err := NormalizeIdentifier(raw)
	if err != nil {
		return g.fail(ctx, kind, raw, source, start, err)
	}

	key := CacheKey(kind, id)
	if rec, ok := g.cache.Get(key); ok {
		elapsed := g.now().Sub(start)
		g.record(ctx, domain.LookupEvent{
			Kind: kind, Identifier: id, Outcome: domain.OutcomeCacheHit,
			Source: domain.SourceCache, Latency: elapsed,
		})
		return domain.LookupResult{
			Success:      true,
			Data:         &rec,
			Cached:       true,
			SearchTimeMs: elapsed.Milliseconds(),
			DataSource:   domain.SourceCache,
		}
	}
	g.metrics.RecordCacheMiss()

	rec, err := g.executor.Execute(ctx, kind, id, 0)
	if err != nil {
		return g.fail(ctx, kind, id, source, start, err)
	}

	rec.Risk = Score(rec.RiskInputs())
	g.cache.Put(key, rec.Clone(), g.ttl)

	elapsed := g.now().Sub(start)
	g.record(ctx, domain.LookupEvent{
		Kind: kind, Identifier: id, Outcome: domain.OutcomeSuccess,
		Source: source, Latency: elapsed,
	})
	return domain.LookupResult{
		Success:      true,
		Data:         &rec,
		SearchTimeMs: elapsed.Milliseconds(),
		DataSource:   source,
	}
}

func (g *Gateway) fail(ctx context.Context, kind domain.IdentifierKind, id string, source domain.DataSource, start time.Time, err error) domain.LookupResult {
	elapsed := g.now().Sub(start)
	errKind := domain.KindOf(err)
	g.record(ctx, domain.LookupEvent{
		Kind: kind, Identifier: id, Outcome: domain.OutcomeFailure, Source: source,
		ErrorKind: errKind, Error: err.Error(), Latency: elapsed,
	})
	return domain.LookupResult{
		Success:      false,
		Error:        err.Error(),
		ErrorKind:    errKind,
		SearchTimeMs: elapsed.Milliseconds(),
		DataSource:   source,
	}
}

func (g *Gateway) record(ctx context.Context, ev domain.LookupEvent) {
	ev.RequestID = RequestIDFrom(ctx)
	ev.At = g.now()
	_ = g.metrics.Record(ctx, ev)
	for _, s := range g.stats {
		if err := s.Record(ctx, ev); err != nil {
			g.logger.Warn("stats export failed", "err", err)
		}
	}
}

// BatchLookup processa os itens em ondas de até `concurrency` consultas
// simultâneas, com uma pausa curta entre ondas. A falha de um item fica no
// próprio slot e não afeta os demais; a ordem do resultado é a da entrada.
func (g *Gateway) BatchLookup(ctx context.Context, items []domain.BatchItem) domain.BatchResult {
	results := make([]domain.LookupResult, len(items))

	for start := 0; start < len(items); start += g.concurrency {
		if start > 0 {
			// ctx cancelado: as consultas restantes falham rápido como CANCELED
			_ = sleepContext(ctx, g.waveDelay)
		}
		end := min(start+g.concurrency, len(items))

		// a onda já tem no máximo `concurrency` itens: ela é o único limite
		var eg errgroup.Group
		for i := start; i < end; i++ {
			i := i
			eg.Go(func() error {
				results[i] = g.lookupItem(ctx, items[i])
				return nil
			})
		}
		_ = eg.Wait()
	}

	summary := domain.BatchSummary{Total: len(items)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Total) * 100
	}
	return domain.BatchResult{Results: results, Summary: summary}
}

func (g *Gateway) lookupItem(ctx context.Context, it domain.BatchItem) domain.LookupResult {
	switch {
	case it.PrimaryID != "":
		return g.LookupByPrimaryID(ctx, it.PrimaryID)
	case it.SecondaryID != "":
		return g.LookupBySecondaryID(ctx, it.SecondaryID)
	}
	err := domain.NewLookupError(domain.KindValidation, errBatchItemEmpty)
	return g.fail(ctx, domain.KindPrimary, "", g.transport.Source(), g.now(), err)
}

func (g *Gateway) Status() domain.SystemStatus {
	configured := g.transport.Configured()
	throttled := g.limiter != nil && !g.limiter.Allow()

	state := domain.StateHealthy
	switch {
	case !configured:
		state = domain.StateNotConfigured
	case throttled:
		state = domain.StateRateLimited
	}

	var usage []domain.WindowUsage
	if g.limiter != nil {
		usage = g.limiter.Usage()
	}
	return domain.SystemStatus{
		Status:     state,
		Configured: configured,
		APIKey:     maskKey(g.apiKey),
		Metrics:    g.metrics.Snapshot(),
		RateLimit:  usage,
		Throttled:  throttled,
		Cache:      g.cache.Stats(),
	}
}

// Health faz uma consulta real ao identificador de teste (quando configurado).
// healthy é falso sem credencial, com cota estourada ou se o teste falhar.
func (g *Gateway) Health(ctx context.Context) domain.HealthReport {
	st := g.Status()

	connectionOK := false
	if st.Configured {
		res := g.LookupByPrimaryID(ctx, g.probeID)
		connectionOK = res.Success || res.Cached
		if !connectionOK {
			g.logger.Warn("registry connection test failed", "probe", g.probeID, "err", res.Error)
		}
	}

	return domain.HealthReport{
		Healthy:              st.Configured && connectionOK && st.Status != domain.StateRateLimited,
		Status:               st.Status,
		Configured:           st.Configured,
		ConnectionTestPassed: connectionOK,
		Metrics:              g.metrics.Snapshot(),
	}
}

func (g *Gateway) CacheStats() domain.CacheStats { return g.cache.Stats() }

func (g *Gateway) ClearCache() {
	g.cache.Clear()
	g.logger.Info("carrier cache cleared")
}

func maskKey(k string) string {
	if k == "" {
		return ""
	}
	if len(k) > 8 {
		k = k[:8]
	}
	return k + "..."
}
