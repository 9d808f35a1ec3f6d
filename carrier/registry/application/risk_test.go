package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carrier-gateway/carrier/registry/domain"
)

func nominalInputs() domain.RiskInputs {
	return domain.RiskInputs{
		OperatingStatus: domain.StatusActive,
		SafetyRating:    domain.RatingSatisfactory,
		PowerUnits:      50,
		Safety: domain.SafetyMetrics{
			CrashTotal:      1,
			InspectionTotal: 20,
			InspectionOOS:   2,
		},
	}
}

func TestScore_NominalCarrierIsLow(t *testing.T) {
	got := Score(nominalInputs())

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, domain.RiskLow, got.Level)
	assert.Equal(t, []string{RecNoConcerns}, got.Recommendations)
}

func TestScore_IndividualRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.RiskInputs)
		score  int
		level  domain.RiskLevel
		rec    string
	}{
		{
			name:   "unsatisfactory rating",
			mutate: func(in *domain.RiskInputs) { in.SafetyRating = domain.RatingUnsatisfactory },
			score:  40, level: domain.RiskHigh, rec: RecUnsatisfactory,
		},
		{
			name:   "conditional rating",
			mutate: func(in *domain.RiskInputs) { in.SafetyRating = domain.RatingConditional },
			score:  20, level: domain.RiskMedium, rec: RecConditional,
		},
		{
			name:   "out of service",
			mutate: func(in *domain.RiskInputs) { in.OperatingStatus = domain.StatusOutOfService },
			score:  50, level: domain.RiskHigh, rec: RecOutOfService,
		},
		{
			name:   "fatal crash",
			mutate: func(in *domain.RiskInputs) { in.Safety.CrashFatal = 1 },
			score:  30, level: domain.RiskMedium, rec: RecFatalCrash,
		},
		{
			name:   "crash rate above 0.1 per unit",
			mutate: func(in *domain.RiskInputs) { in.Safety.CrashTotal = 6 },
			score:  15, level: domain.RiskLow, rec: RecCrashRate,
		},
		{
			name:   "out of service inspection rate above 0.2",
			mutate: func(in *domain.RiskInputs) { in.Safety.InspectionOOS = 5 },
			score:  25, level: domain.RiskMedium, rec: RecOOSRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := nominalInputs()
			tt.mutate(&in)

			got := Score(in)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, []string{tt.rec}, got.Recommendations)
		})
	}
}

func TestScore_RateThresholdsAreStrict(t *testing.T) {
	in := nominalInputs()
	in.PowerUnits = 10
	in.Safety.CrashTotal = 1    // 0.1 exato
	in.Safety.InspectionOOS = 4 // 0.2 exato

	got := Score(in)
	assert.Equal(t, 0, got.Score)
}

func TestScore_ZeroPowerUnitsCountsAsOne(t *testing.T) {
	in := nominalInputs()
	in.PowerUnits = 0
	in.Safety.CrashTotal = 1

	got := Score(in)
	assert.Equal(t, 15, got.Score)
	assert.Contains(t, got.Recommendations, RecCrashRate)
}

func TestScore_NoInspectionsSkipsOOSRule(t *testing.T) {
	in := nominalInputs()
	in.Safety.InspectionTotal = 0
	in.Safety.InspectionOOS = 3

	assert.Equal(t, 0, Score(in).Score)
}

func TestScore_WorstCaseIsCriticalAndClamped(t *testing.T) {
	in := domain.RiskInputs{
		OperatingStatus: domain.StatusOutOfService,
		SafetyRating:    domain.RatingUnsatisfactory,
		PowerUnits:      2,
		Safety: domain.SafetyMetrics{
			CrashTotal:      4,
			CrashFatal:      1,
			InspectionTotal: 10,
			InspectionOOS:   8,
		},
	}

	got := Score(in)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, domain.RiskCritical, got.Level)
	assert.Equal(t, []string{
		RecUnsatisfactory, RecOutOfService, RecFatalCrash, RecCrashRate, RecOOSRate,
	}, got.Recommendations)
}

func TestScore_OutOfServiceWithFatalCrashIsCritical(t *testing.T) {
	in := nominalInputs()
	in.OperatingStatus = domain.StatusOutOfService
	in.Safety.CrashFatal = 2

	got := Score(in)
	assert.Equal(t, 80, got.Score)
	assert.Equal(t, domain.RiskCritical, got.Level)
}
