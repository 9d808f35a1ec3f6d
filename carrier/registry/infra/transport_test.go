package infra

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-gateway/carrier/registry/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestHasCredential(t *testing.T) {
	assert.False(t, HasCredential(""))
	assert.False(t, HasCredential("   "))
	assert.False(t, HasCredential("your_fmcsa_api_key_here"))
	assert.True(t, HasCredential("abc123"))
}

func TestNewTransport_SelectsVariantOnce(t *testing.T) {
	mock := NewTransport("", discardLogger)
	assert.IsType(t, &MockTransport{}, mock)
	assert.False(t, mock.Configured())

	httpTr := NewTransport(" abc123 ", discardLogger)
	require.IsType(t, &HTTPTransport{}, httpTr)
	assert.Equal(t, "abc123", httpTr.(*HTTPTransport).apiKey)
}

func TestMockTransport_IsDeterministicAndLowRisk(t *testing.T) {
	m := NewMockTransport()
	ctx := context.Background()

	a, err := m.Lookup(ctx, domain.KindPrimary, "123456")
	require.NoError(t, err)
	b, err := m.Lookup(ctx, domain.KindPrimary, "123456")
	require.NoError(t, err)

	// só LastUpdateDate varia entre chamadas
	a.LastUpdateDate, b.LastUpdateDate = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
	assert.Equal(t, "123456", a.DOTNumber)
	assert.Equal(t, "Mock Transportation Company LLC", a.LegalName)
	assert.Equal(t, domain.StatusActive, a.OperatingStatus)
	assert.Equal(t, domain.RatingSatisfactory, a.SafetyRating)

	mc, err := m.Lookup(ctx, domain.KindSecondary, "555")
	require.NoError(t, err)
	assert.Equal(t, "MC-555", mc.MCNumber)
}

func TestMockTransport_StaysUnderRiskThresholds(t *testing.T) {
	m := NewMockTransport()
	for _, id := range []string{"1", "22", "333", "4444", "55555", "666666", "7777777", "88888888"} {
		rec, err := m.Lookup(context.Background(), domain.KindPrimary, id)
		require.NoError(t, err)

		crashRate := float64(rec.Safety.CrashTotal) / float64(rec.PowerUnits)
		oosRate := float64(rec.Safety.InspectionOOS) / float64(rec.Safety.InspectionTotal)
		assert.LessOrEqual(t, crashRate, 0.1, id)
		assert.LessOrEqual(t, oosRate, 0.2, id)
		assert.Zero(t, rec.Safety.CrashFatal, id)
	}
}

func TestMockTransport_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockTransport().Lookup(ctx, domain.KindPrimary, "1")
	assert.ErrorIs(t, err, context.Canceled)
}
