// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - WindowLimiter: cota do registro em três janelas (minuto/hora/dia)
//   - ResponseCache: cache com TTL, capacidade e limpeza periódica
//   - HTTPTransport/MockTransport: as duas variantes de acesso ao registro
//   - RedisStatsStore/PrometheusStatsStore: exportação de estatísticas
//   - ClientStore: token bucket por cliente usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
package infra
