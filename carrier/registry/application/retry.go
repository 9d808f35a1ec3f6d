package application

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 30 * time.Second
	DefaultBackoffBase    = 1 * time.Second
	DefaultBackoffMax     = 10 * time.Second
)

// RetryExecutor faz uma consulta lógica ao registro, repetindo falhas
// transitórias com backoff exponencial. As tentativas de uma mesma consulta
// são sempre sequenciais.
type RetryExecutor struct {
	transport   domain.Transport
	limiter     domain.RateLimiter
	maxAttempts int
	timeout     time.Duration
	backoffBase time.Duration
	backoffMax  time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error

	attempts atomic.Int64
}

type ExecutorOption func(*RetryExecutor)

func WithMaxAttempts(n int) ExecutorOption {
	return func(e *RetryExecutor) { e.maxAttempts = n }
}

func WithAttemptTimeout(d time.Duration) ExecutorOption {
	return func(e *RetryExecutor) { e.timeout = d }
}

func WithBackoff(base, maxDelay time.Duration) ExecutorOption {
	return func(e *RetryExecutor) {
		e.backoffBase = base
		e.backoffMax = maxDelay
	}
}

func WithExecutorLogger(l *slog.Logger) ExecutorOption {
	return func(e *RetryExecutor) { e.logger = l }
}

// WithSleep troca a espera do backoff (usado nos testes).
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ExecutorOption {
	return func(e *RetryExecutor) { e.sleep = fn }
}

func NewRetryExecutor(t domain.Transport, lim domain.RateLimiter, opts ...ExecutorOption) *RetryExecutor {
	e := &RetryExecutor{
		transport:   t,
		limiter:     lim,
		maxAttempts: DefaultMaxAttempts,
		timeout:     DefaultAttemptTimeout,
		backoffBase: DefaultBackoffBase,
		backoffMax:  DefaultBackoffMax,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.maxAttempts <= 0 {
		e.maxAttempts = DefaultMaxAttempts
	}
	return e
}

// Attempts devolve quantas chamadas ao transporte já foram feitas.
func (e *RetryExecutor) Attempts() int64 { return e.attempts.Load() }

func (e *RetryExecutor) Source() domain.DataSource { return e.transport.Source() }

// Execute valida o identificador e consulta o registro com até maxAttempts
// tentativas (0 usa o padrão configurado).
//
// Regras:
//   - identificador inválido: falha sem tocar no limitador nem na rede;
//   - limitador negou: RATE_LIMITED imediato, sem chamada;
//   - "não encontrado" ou 4xx definitivo: devolve na hora, sem retry;
//   - falha transitória: espera min(base*2^(n-1), max) e tenta de novo;
//   - ctx cancelado: interrompe no próximo ponto de espera (CANCELED).
func (e *RetryExecutor) Execute(ctx context.Context, kind domain.IdentifierKind, raw string, maxAttempts int) (domain.CarrierRecord, error) {
	id, err := NormalizeIdentifier(raw)
	if err != nil {
		return domain.CarrierRecord{}, err
	}
	if maxAttempts <= 0 {
		maxAttempts = e.maxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return domain.CarrierRecord{}, canceled(ctx, lastErr)
		}
		if e.limiter != nil && !e.limiter.TryAcquire() {
			return domain.CarrierRecord{}, domain.NewLookupError(domain.KindRateLimited, domain.ErrRateLimited)
		}
		e.attempts.Add(1)

		rec, err := e.attempt(ctx, kind, id)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return domain.CarrierRecord{}, canceled(ctx, err)
		}

		switch domain.KindOf(err) {
		case domain.KindNotFound, domain.KindRejected, domain.KindValidation:
			return domain.CarrierRecord{}, err
		}
		lastErr = err

		if attempt < maxAttempts {
			delay := e.backoff(attempt)
			e.logger.Warn("registry lookup attempt failed, retrying",
				"kind", kind, "id", id, "attempt", attempt, "delay", delay, "err", err)
			if err := e.sleep(ctx, delay); err != nil {
				return domain.CarrierRecord{}, canceled(ctx, lastErr)
			}
		}
	}

	if lastErr == nil {
		lastErr = errors.New("all retry attempts failed")
	}
	return domain.CarrierRecord{}, domain.NewLookupError(domain.KindTransient, lastErr)
}

func (e *RetryExecutor) attempt(ctx context.Context, kind domain.IdentifierKind, id string) (domain.CarrierRecord, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.transport.Lookup(ctx, kind, id)
}

func (e *RetryExecutor) backoff(attempt int) time.Duration {
	if attempt-1 >= 30 {
		return e.backoffMax
	}
	d := e.backoffBase << (attempt - 1)
	if d <= 0 || d > e.backoffMax {
		return e.backoffMax
	}
	return d
}

func canceled(ctx context.Context, last error) error {
	if last != nil {
		return domain.NewLookupError(domain.KindCanceled, errors.Join(ctx.Err(), last))
	}
	return domain.NewLookupError(domain.KindCanceled, ctx.Err())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
