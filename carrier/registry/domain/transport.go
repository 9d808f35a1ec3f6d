package domain

import (
	"context"
	"time"
)

// Transport executa uma única consulta ao registro (sem retry).
//
// Há duas variantes: o cliente HTTP real e o mock determinístico. A escolha
// acontece uma vez, na construção do gateway.
type Transport interface {
	Lookup(ctx context.Context, kind IdentifierKind, id string) (CarrierRecord, error)
	Source() DataSource
	Configured() bool
}

// Cache guarda registros por chave normalizada (ex: "dot:123456").
type Cache interface {
	Get(key string) (CarrierRecord, bool)
	Put(key string, rec CarrierRecord, ttl time.Duration)
	Clear()
	Stats() CacheStats
}
