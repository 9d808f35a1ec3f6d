package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"carrier-gateway/carrier/registry/application"
	"carrier-gateway/carrier/registry/domain"
	"carrier-gateway/carrier/registry/infra"
)

// Service agrupa o gateway montado e os recursos que precisam ser fechados.
type Service struct {
	Gateway *application.Gateway
	Cache   *infra.ResponseCache
	Clients *infra.ClientStore

	rdb *redis.Client
}

// New monta todas as camadas a partir da config. Os janitors (cache e
// clientes) rodam até ctx ser cancelado. reg pode ser nil (sem Prometheus).
func New(ctx context.Context, cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transport := infra.NewTransport(cfg.APIKey, logger, infra.WithBaseURL(cfg.BaseURL))
	limiter := infra.NewWindowLimiter(cfg.PerMinute, cfg.PerHour, cfg.PerDay)
	cache := infra.NewResponseCache(
		infra.WithCapacity(cfg.CacheCapacity),
		infra.WithSweepEvery(cfg.CacheSweepEvery),
	)
	cache.StartJanitor(ctx)

	clients := infra.NewClientStore(cfg.ClientRateRPS, cfg.ClientRateBurst)
	clients.StartJanitor(ctx)

	svc := &Service{Cache: cache, Clients: clients}

	var stats []domain.StatsStore
	if cfg.MetricsEnabled && reg != nil {
		ps, err := infra.NewPrometheusStatsStore(reg)
		if err != nil {
			return nil, fmt.Errorf("prometheus stats: %w", err)
		}
		stats = append(stats, ps)
	}

	if cfg.StatsRedisEnabled {
		svc.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := svc.rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = svc.rdb.Close()
			return nil, fmt.Errorf("redis stats ping: %w", err)
		}

		stats = append(stats, infra.NewRedisStatsStore(
			svc.rdb,
			infra.WithStatsPrefix(cfg.StatsRedisPrefix),
			infra.WithStatsTTL(cfg.StatsRedisTTL),
			infra.WithStatsBucket(cfg.StatsRedisBucket),
			infra.WithStatsTrackIDs(cfg.StatsRedisTrackIDs),
		))
	}

	svc.Gateway = application.NewGateway(application.GatewayConfig{
		Transport:        transport,
		Cache:            cache,
		Limiter:          limiter,
		Metrics:          infra.NewMetricsRecorder(),
		Stats:            stats,
		CacheTTL:         cfg.CacheTTL,
		BatchConcurrency: cfg.BatchConcurrency,
		BatchWaveDelay:   cfg.BatchWaveDelay,
		ProbeID:          cfg.ProbeID,
		APIKey:           cfg.APIKey,
		Logger:           logger,
		ExecutorOptions: []application.ExecutorOption{
			application.WithMaxAttempts(cfg.MaxAttempts),
			application.WithAttemptTimeout(cfg.AttemptTimeout),
			application.WithBackoff(cfg.BackoffBase, cfg.BackoffMax),
		},
	})
	return svc, nil
}

// Handler devolve a API HTTP completa com os middlewares de admissão
// (limite por cliente e concorrência) aplicados conforme a config.
func (s *Service) Handler(cfg Config, metrics http.Handler) http.Handler {
	h := NewHandler(s.Gateway, HandlerOptions{BatchMaxItems: cfg.BatchMaxItems, Metrics: metrics})
	h = ConcurrencyLimit(ConcurrencyOptions{
		Max:            cfg.ConcurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.ConcurrencyTimeout,
	})(h)
	if cfg.ClientRateEnabled {
		h = RateLimit(RateLimitOptions{
			Store:               s.Clients,
			KeyHeader:           cfg.ClientKeyHeader,
			TrustXForwardedFor:  cfg.TrustXFF,
			RejectStatus:        http.StatusTooManyRequests,
			RetryAfter:          cfg.RetryAfter,
			AddRateLimitHeaders: cfg.AddRateLimitHeaders,
		})(h)
	}
	return h
}

func (s *Service) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}
