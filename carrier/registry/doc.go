// Package registry expõe o gateway de transportadoras via HTTP (net/http + chi)
// e faz a montagem (wiring) das camadas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (sem net/http)
//   - application: casos de uso (lookup, batch, retry, score de risco, admissão)
//   - infra: implementações concretas (janelas de cota, cache TTL, transporte
//     HTTP/mock, Redis, Prometheus, token bucket por cliente)
//   - registry (este pacote): rotas HTTP, middlewares, config e wiring
//
// Fluxo de uma consulta:
//
//  1. Middlewares: limite por cliente (429), limite de concorrência (503), request id
//  2. Handler chama Gateway.LookupByPrimaryID/LookupBySecondaryID
//  3. Gateway: cache -> cota do registro -> RetryExecutor -> score -> cache -> métricas
//  4. O LookupResult vira JSON com o status HTTP correspondente ao tipo de erro
//
// Variáveis de ambiente (ver LoadConfig) controlam o comportamento, como
// REGISTRY_API_KEY, LIMIT_PER_MINUTE, CACHE_TTL e BATCH_CONCURRENCY.
package registry
