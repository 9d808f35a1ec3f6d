package infra

import (
	"log/slog"
	"strings"

	"carrier-gateway/carrier/registry/domain"
)

const placeholderAPIKey = "your_fmcsa_api_key_here"

// HasCredential diz se a chave do registro parece configurada.
func HasCredential(apiKey string) bool {
	k := strings.TrimSpace(apiKey)
	return k != "" && k != placeholderAPIKey
}

// NewTransport escolhe a variante uma única vez: cliente HTTP com credencial,
// mock determinístico sem ela (com um aviso no log).
func NewTransport(apiKey string, logger *slog.Logger, opts ...HTTPTransportOption) domain.Transport {
	if logger == nil {
		logger = slog.Default()
	}
	if !HasCredential(apiKey) {
		logger.Warn("registry API key not configured - using mock carrier data")
		return NewMockTransport()
	}
	logger.Info("registry transport initialized with API key")
	return NewHTTPTransport(strings.TrimSpace(apiKey), opts...)
}
