package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carrier-gateway/carrier/registry"
)

func main() {
	cfg, err := registry.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := registry.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		reg     *prometheus.Registry
		metrics http.Handler
	)
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	svc, err := registry.New(ctx, cfg, logger, registerer(reg))
	if err != nil {
		logger.Error("gateway init error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = svc.Close() }()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           svc.Handler(cfg, metrics),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// lotes grandes podem esperar vários backoffs
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("carrier gateway listening", "addr", cfg.ListenAddr, "configured", svc.Gateway.Status().Configured)
	logger.Info("registry quota", "perMinute", cfg.PerMinute, "perHour", cfg.PerHour, "perDay", cfg.PerDay,
		"maxAttempts", cfg.MaxAttempts, "timeout", cfg.AttemptTimeout)
	logger.Info("cache", "ttl", cfg.CacheTTL, "capacity", cfg.CacheCapacity, "sweepEvery", cfg.CacheSweepEvery)
	logger.Info("client rate", "enabled", cfg.ClientRateEnabled, "rps", cfg.ClientRateRPS, "burst", cfg.ClientRateBurst,
		"keyHeader", cfg.ClientKeyHeader, "trustXFF", cfg.TrustXFF)
	logger.Info("stats", "prometheus", cfg.MetricsEnabled, "redis", cfg.StatsRedisEnabled, "redisAddr", cfg.StatsRedisAddr)
	logger.Info("concurrency", "max", cfg.ConcurrencyMax, "acquireTimeout", cfg.ConcurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// registerer evita passar um *Registry nil embrulhado na interface.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}
