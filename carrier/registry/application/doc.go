// Package application contém os casos de uso do gateway de transportadoras.
//
// Ele depende apenas do pacote domain (e de utilitários de concorrência de
// golang.org/x/sync); não conhece net/http, Redis ou Prometheus.
// Ex.: Gateway.LookupByPrimaryID consulta o cache, passa pelo limitador e pelo
// RetryExecutor, calcula o risco e devolve um domain.LookupResult.
package application
