package infra

import (
	"context"

	"carrier-gateway/carrier/registry/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore publica as consultas como métricas Prometheus:
//   - carrier_lookups_total{kind,outcome,source}
//   - carrier_lookup_errors_total{kind,error}
//   - carrier_lookup_duration_seconds{kind,source}
//
// Identificadores nunca viram label (cardinalidade).
type PrometheusStatsStore struct {
	lookups  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	s := &PrometheusStatsStore{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carrier_lookups_total",
			Help: "Carrier lookups by identifier kind, outcome and data source.",
		}, []string{"kind", "outcome", "source"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carrier_lookup_errors_total",
			Help: "Failed carrier lookups by error kind.",
		}, []string{"kind", "error"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carrier_lookup_duration_seconds",
			Help:    "Carrier lookup latency in seconds.",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind", "source"}),
	}

	for _, c := range []prometheus.Collector{s.lookups, s.errors, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.LookupEvent) error {
	kind := string(ev.Kind)
	s.lookups.WithLabelValues(kind, string(ev.Outcome), string(ev.Source)).Inc()
	s.duration.WithLabelValues(kind, string(ev.Source)).Observe(ev.Latency.Seconds())
	if ev.Outcome == domain.OutcomeFailure {
		s.errors.WithLabelValues(kind, string(ev.ErrorKind)).Inc()
	}
	return nil
}
