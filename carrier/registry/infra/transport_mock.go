package infra

import (
	"context"
	"hash/fnv"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

// MockTransport sintetiza um registro plausível e de baixo risco a partir do
// identificador. O mesmo identificador gera sempre o mesmo registro (exceto
// LastUpdateDate).
type MockTransport struct {
	now func() time.Time
}

func NewMockTransport() *MockTransport {
	return &MockTransport{now: time.Now}
}

func (m *MockTransport) Source() domain.DataSource { return domain.SourceMock }
func (m *MockTransport) Configured() bool          { return false }

func (m *MockTransport) Lookup(ctx context.Context, kind domain.IdentifierKind, id string) (domain.CarrierRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.CarrierRecord{}, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(string(kind) + ":" + id))
	seed := int(h.Sum32() % 1000)

	dot, mc := "12345", "MC-67890"
	if kind == domain.KindPrimary {
		dot = id
	} else {
		mc = "MC-" + id
	}

	powerUnits := 25 + seed%20
	return domain.CarrierRecord{
		DOTNumber:          dot,
		MCNumber:           mc,
		LegalName:          "Mock Transportation Company LLC",
		DBAName:            "Mock Trucking",
		PhysicalAddress:    "123 Mock Street, Mock City, TX 12345",
		MailingAddress:     "123 Mock Street, Mock City, TX 12345",
		Phone:              "(555) 123-4567",
		Email:              "contact@mocktransport.com",
		OperatingAuthority: "ACTIVE",
		OperatingStatus:    domain.StatusActive,
		SafetyRating:       domain.RatingSatisfactory,
		EntityType:         "CARRIER",
		PowerUnits:         powerUnits,
		Drivers:            powerUnits + 5,
		MCS150Date:         "2024-01-15",
		MCS150Mileage:      500000 + seed*100,

		EquipmentTypes:          []string{"Van", "Flatbed"},
		CargoCarried:            []string{"General Freight"},
		OperationClassification: []string{"Interstate"},
		InsuranceRequired:       []string{"Cargo", "Liability"},
		BondSurety:              []string{"BMC-84"},

		SafetyReviewDate: "2023-06-15",
		LastUpdateDate:   m.now().UTC(),

		// crashes/powerUnits <= 2/25 e OOS/inspeções <= 1/15: fica em LOW
		Safety: domain.SafetyMetrics{
			CrashTotal:        seed % 3,
			CrashInjury:       min(seed%3, 1),
			CrashTow:          seed%3 - min(seed%3, 1),
			InspectionTotal:   15 + seed%10,
			InspectionOOS:     1,
			VehicleOOS:        1,
			DriverViolations:  3,
			VehicleViolations: 2,
		},
	}, nil
}
