package infra

import (
	"sync"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

// Limites padrão (conservadores) da cota do registro.
const (
	DefaultPerMinute = 60
	DefaultPerHour   = 1000
	DefaultPerDay    = 10000
)

// rollingCounter é um contador de janela fixa que zera quando a janela vence.
// A mesma lógica serve para os três horizontes.
type rollingCounter struct {
	name   string
	window time.Duration
	limit  int64
	count  int64
	start  time.Time
}

// roll zera o contador se a janela venceu. Como start passa a ser now, uma
// segunda chamada no mesmo instante não zera de novo.
func (c *rollingCounter) roll(now time.Time) {
	if now.Sub(c.start) >= c.window {
		c.count = 0
		c.start = now
	}
}

func (c *rollingCounter) exhausted() bool { return c.count >= c.limit }

func (c *rollingCounter) usage() domain.WindowUsage {
	return domain.WindowUsage{
		Window:      c.name,
		Duration:    c.window,
		Count:       c.count,
		Limit:       c.limit,
		Remaining:   max(0, c.limit-c.count),
		WindowStart: c.start,
	}
}

// WindowLimiter implementa domain.RateLimiter com três janelas independentes.
type WindowLimiter struct {
	mu       sync.Mutex
	counters []*rollingCounter
	now      func() time.Time
}

type WindowLimiterOption func(*WindowLimiter)

// WithLimiterClock troca o relógio (testes com tempo simulado).
func WithLimiterClock(now func() time.Time) WindowLimiterOption {
	return func(l *WindowLimiter) { l.now = now }
}

func NewWindowLimiter(perMinute, perHour, perDay int64, opts ...WindowLimiterOption) *WindowLimiter {
	l := &WindowLimiter{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	start := l.now()
	l.counters = []*rollingCounter{
		{name: "minute", window: time.Minute, limit: perMinute, start: start},
		{name: "hour", window: time.Hour, limit: perHour, start: start},
		{name: "day", window: 24 * time.Hour, limit: perDay, start: start},
	}
	return l
}

// Allow retorna false se qualquer janela atingiu o limite.
func (l *WindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	allowed := true
	for _, c := range l.counters {
		c.roll(now)
		if c.exhausted() {
			allowed = false
		}
	}
	return allowed
}

// RecordAttempt conta uma tentativa em todas as janelas, sob o mesmo lock.
func (l *WindowLimiter) RecordAttempt() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, c := range l.counters {
		c.roll(now)
		c.count++
	}
}

// TryAcquire verifica e consome uma tentativa em todas as janelas sob o
// mesmo lock. Se alguma janela está esgotada, nada é contado.
func (l *WindowLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, c := range l.counters {
		c.roll(now)
	}
	for _, c := range l.counters {
		if c.exhausted() {
			return false
		}
	}
	for _, c := range l.counters {
		c.count++
	}
	return true
}

func (l *WindowLimiter) Usage() []domain.WindowUsage {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	out := make([]domain.WindowUsage, 0, len(l.counters))
	for _, c := range l.counters {
		c.roll(now)
		out = append(out, c.usage())
	}
	return out
}
