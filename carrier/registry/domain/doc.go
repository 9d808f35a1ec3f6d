// Package domain define tipos e contratos do gateway de consulta de transportadoras.
//
// Este pacote não depende de net/http nem de implementações concretas
// (Redis, Prometheus, cliente HTTP do registro). A intenção é permitir testes de
// unidade puros e desacoplar as regras (score de risco, retry, cache, limites)
// dos detalhes de infraestrutura.
package domain
