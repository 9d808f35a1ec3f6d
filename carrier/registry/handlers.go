package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carrier-gateway/carrier/registry/domain"
)

const maxBatchBody = 1 << 20

// Gateway é o que os handlers precisam do caso de uso.
type Gateway interface {
	LookupByPrimaryID(ctx context.Context, id string) domain.LookupResult
	LookupBySecondaryID(ctx context.Context, id string) domain.LookupResult
	BatchLookup(ctx context.Context, items []domain.BatchItem) domain.BatchResult
	Health(ctx context.Context) domain.HealthReport
	Status() domain.SystemStatus
	CacheStats() domain.CacheStats
	ClearCache()
}

type HandlerOptions struct {
	// BatchMaxItems limita o tamanho do lote (padrão 100).
	BatchMaxItems int
	// Metrics, se presente, é montado em /metrics.
	Metrics http.Handler
}

type handler struct {
	gw       Gateway
	maxBatch int
	now      func() time.Time
}

type batchRequest struct {
	Items []domain.BatchItem `json:"items" validate:"required,min=1,dive"`
}

// NewHandler monta as rotas da API.
func NewHandler(gw Gateway, opts HandlerOptions) http.Handler {
	h := &handler{gw: gw, maxBatch: opts.BatchMaxItems, now: time.Now}
	if h.maxBatch <= 0 {
		h.maxBatch = 100
	}

	r := chi.NewRouter()
	r.Use(RequestID)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/carriers/dot/{id}", h.lookupPrimary)
		r.Get("/carriers/mc/{id}", h.lookupSecondary)
		r.Post("/carriers/batch", h.batch)
		r.Get("/health", h.health)
		r.Get("/status", h.status)
		r.Get("/cache/stats", h.cacheStats)
		r.Delete("/cache", h.clearCache)
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}

func (h *handler) lookupPrimary(w http.ResponseWriter, r *http.Request) {
	h.writeLookup(w, h.gw.LookupByPrimaryID(r.Context(), chi.URLParam(r, "id")))
}

func (h *handler) lookupSecondary(w http.ResponseWriter, r *http.Request) {
	h.writeLookup(w, h.gw.LookupBySecondaryID(r.Context(), chi.URLParam(r, "id")))
}

func (h *handler) writeLookup(w http.ResponseWriter, res domain.LookupResult) {
	status := lookupStatus(res)
	if status == http.StatusTooManyRequests {
		if d := retryAfter(h.gw.Status().RateLimit, h.now()); d > 0 {
			w.Header().Set("Retry-After", formatInt(int(math.Ceil(d.Seconds()))))
		}
	}
	writeJSON(w, status, res)
}

func (h *handler) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBatchBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Var(req.Items, fmt.Sprintf("max=%d", h.maxBatch)); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch exceeds %d items", h.maxBatch))
		return
	}

	writeJSON(w, http.StatusOK, h.gw.BatchLookup(r.Context(), req.Items))
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	rep := h.gw.Health(r.Context())
	status := http.StatusOK
	if !rep.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rep)
}

func (h *handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gw.Status())
}

func (h *handler) cacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gw.CacheStats())
}

func (h *handler) clearCache(w http.ResponseWriter, _ *http.Request) {
	h.gw.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func lookupStatus(res domain.LookupResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// retryAfter devolve quanto falta para todas as janelas esgotadas reabrirem
// (a maior espera entre elas).
func retryAfter(usage []domain.WindowUsage, now time.Time) time.Duration {
	var best time.Duration
	for _, u := range usage {
		if u.Remaining > 0 {
			continue
		}
		// todas as janelas esgotadas precisam reabrir: vale a maior espera
		if d := u.WindowStart.Add(u.Duration).Sub(now); d > best {
			best = d
		}
	}
	return best
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
