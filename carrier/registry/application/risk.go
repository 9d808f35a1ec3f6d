package application

import "carrier-gateway/carrier/registry/domain"

// Pesos e limiares do score de risco.
const (
	weightUnsatisfactory = 40
	weightConditional    = 20
	weightOutOfService   = 50
	weightFatalCrash     = 30
	weightCrashRate      = 15
	weightOOSRate        = 25

	crashRateThreshold = 0.1
	oosRateThreshold   = 0.2

	thresholdCritical = 70
	thresholdHigh     = 40
	thresholdMedium   = 20

	maxRiskScore = 100
)

const (
	RecUnsatisfactory = "Unsatisfactory safety rating - requires immediate attention"
	RecConditional    = "Conditional safety rating - monitor closely"
	RecOutOfService   = "Carrier is out of service - do not use"
	RecFatalCrash     = "Fatal crashes in history - high risk"
	RecCrashRate      = "High crash rate relative to fleet size"
	RecOOSRate        = "High out-of-service rate during inspections"
	RecNoConcerns     = "No significant safety concerns identified"
)

// Score calcula o risco de forma aditiva. O total é limitado a [0,100];
// os níveis usam o valor já limitado.
func Score(in domain.RiskInputs) domain.RiskAssessment {
	score := 0
	var recs []string

	switch in.SafetyRating {
	case domain.RatingUnsatisfactory:
		score += weightUnsatisfactory
		recs = append(recs, RecUnsatisfactory)
	case domain.RatingConditional:
		score += weightConditional
		recs = append(recs, RecConditional)
	}

	if in.OperatingStatus == domain.StatusOutOfService {
		score += weightOutOfService
		recs = append(recs, RecOutOfService)
	}

	if in.Safety.CrashFatal > 0 {
		score += weightFatalCrash
		recs = append(recs, RecFatalCrash)
	}

	units := max(in.PowerUnits, 1)
	if float64(in.Safety.CrashTotal)/float64(units) > crashRateThreshold {
		score += weightCrashRate
		recs = append(recs, RecCrashRate)
	}

	if in.Safety.InspectionTotal > 0 {
		oosRate := float64(in.Safety.InspectionOOS) / float64(in.Safety.InspectionTotal)
		if oosRate > oosRateThreshold {
			score += weightOOSRate
			recs = append(recs, RecOOSRate)
		}
	}

	score = min(max(score, 0), maxRiskScore)

	if len(recs) == 0 {
		recs = []string{RecNoConcerns}
	}
	return domain.RiskAssessment{Score: score, Level: levelFor(score), Recommendations: recs}
}

func levelFor(score int) domain.RiskLevel {
	switch {
	case score >= thresholdCritical:
		return domain.RiskCritical
	case score >= thresholdHigh:
		return domain.RiskHigh
	case score >= thresholdMedium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
