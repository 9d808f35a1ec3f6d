package application

import (
	"strings"

	"carrier-gateway/carrier/registry/domain"
)

const maxIdentifierDigits = 8

// NormalizeIdentifier remove tudo que não é dígito ("MC-123 456" -> "123456")
// e valida o tamanho (1 a 8 dígitos).
func NormalizeIdentifier(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if len(id) < 1 || len(id) > maxIdentifierDigits {
		return "", domain.Errorf(domain.KindValidation, "%w: %q", domain.ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// CacheKey monta a chave do cache com o namespace do tipo de identificador.
func CacheKey(kind domain.IdentifierKind, id string) string {
	return string(kind) + ":" + id
}
