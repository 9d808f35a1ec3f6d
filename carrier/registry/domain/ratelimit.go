package domain

// Contratos de limite de taxa.
//
// Há dois limitadores distintos no gateway:
//   - RateLimiter protege a cota do registro externo (minuto/hora/dia);
//   - Limiter/LimiterStore protegem a API HTTP contra clientes abusivos.

import "time"

// RateLimiter controla a cota global de chamadas ao registro.
//
// Allow não tem efeito colateral além do rollover das janelas; RecordAttempt
// conta uma tentativa aceita contra todos os horizontes de uma vez.
// TryAcquire faz as duas coisas numa única seção crítica: é o que quem
// consome cota deve usar, já que Allow seguido de RecordAttempt deixa
// chamadas concorrentes passarem do limite.
type RateLimiter interface {
	Allow() bool
	RecordAttempt()
	TryAcquire() bool
	Usage() []WindowUsage
}

type Key string

// Limiter decide se uma ação de um cliente é permitida agora.
// A camada de infra usa golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP, API key).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
