package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

const (
	DefaultRegistryBaseURL = "https://mobile.fmcsa.dot.gov/qc"
	defaultUserAgent       = "carrier-gateway/1.0"
	maxResponseBytes       = 4 << 20
)

// StatusError representa uma resposta não-2xx do registro.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry API error: %s", e.Status)
}

// HTTPTransport consulta o registro real. Cada chamada é uma única tentativa;
// retry e timeout por tentativa ficam com o RetryExecutor (via ctx).
type HTTPTransport struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	now       func() time.Time
}

type HTTPTransportOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) { t.client = c }
}

func WithBaseURL(u string) HTTPTransportOption {
	return func(t *HTTPTransport) { t.baseURL = u }
}

func WithUserAgent(ua string) HTTPTransportOption {
	return func(t *HTTPTransport) { t.userAgent = ua }
}

func NewHTTPTransport(apiKey string, opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client:    &http.Client{},
		baseURL:   DefaultRegistryBaseURL,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) Source() domain.DataSource { return domain.SourceRegistry }
func (t *HTTPTransport) Configured() bool          { return true }

func (t *HTTPTransport) Lookup(ctx context.Context, kind domain.IdentifierKind, id string) (domain.CarrierRecord, error) {
	path := "/services/carriers/" + url.PathEscape(id)
	label := "DOT"
	if kind == domain.KindSecondary {
		path = "/services/carriers/docket-number/" + url.PathEscape(id)
		label = "MC"
	}
	endpoint := t.baseURL + path + "?webKey=" + url.QueryEscape(t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.CarrierRecord{}, domain.NewLookupError(domain.KindRejected, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error carrega a chave na query; devolvemos só a causa
		if ue, ok := err.(*url.Error); ok {
			err = ue.Err
		}
		return domain.CarrierRecord{}, domain.Errorf(domain.KindTransient, "registry request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return domain.CarrierRecord{}, domain.Errorf(domain.KindNotFound,
			"%w with the provided %s number", domain.ErrNotFound, label)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.CarrierRecord{}, classifyStatus(&StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	var payload registryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.CarrierRecord{}, domain.Errorf(domain.KindTransient, "decode registry response: %w", err)
	}
	if len(payload.Content) == 0 {
		return domain.CarrierRecord{}, domain.Errorf(domain.KindNotFound, "%w: no carrier data found", domain.ErrNotFound)
	}

	return payload.Content[0].record().toRecord(t.now()), nil
}

// classifyStatus: 408/429/5xx são transitórios; outros 4xx não adianta repetir.
func classifyStatus(se *StatusError) error {
	switch {
	case se.StatusCode == http.StatusRequestTimeout,
		se.StatusCode == http.StatusTooManyRequests,
		se.StatusCode >= 500:
		return domain.NewLookupError(domain.KindTransient, se)
	}
	return domain.NewLookupError(domain.KindRejected, fmt.Errorf("%w: %w", domain.ErrRejected, se))
}
