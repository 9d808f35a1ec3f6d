package domain

import "time"

type OperatingStatus string

const (
	StatusActive        OperatingStatus = "ACTIVE"
	StatusOutOfService  OperatingStatus = "OUT_OF_SERVICE"
	StatusNotAuthorized OperatingStatus = "NOT_AUTHORIZED"
)

type SafetyRating string

const (
	RatingSatisfactory   SafetyRating = "SATISFACTORY"
	RatingConditional    SafetyRating = "CONDITIONAL"
	RatingUnsatisfactory SafetyRating = "UNSATISFACTORY"
	RatingNotRated       SafetyRating = "NOT_RATED"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// SafetyMetrics agrupa contagens de acidentes, inspeções e violações
// reportadas pelo registro.
type SafetyMetrics struct {
	CrashTotal  int `json:"crashTotal"`
	CrashFatal  int `json:"crashFatal"`
	CrashInjury int `json:"crashInjury"`
	CrashTow    int `json:"crashTow"`
	CrashHazmat int `json:"crashHazmat"`

	InspectionTotal   int `json:"inspectionTotal"`
	InspectionOOS     int `json:"inspectionOOS"`
	DriverOOS         int `json:"driverOOS"`
	VehicleOOS        int `json:"vehicleOOS"`
	HazmatInspections int `json:"hazmatInspections"`

	DriverViolations  int `json:"driverViolations"`
	VehicleViolations int `json:"vehicleViolations"`
	HazmatViolations  int `json:"hazmatViolations"`
}

type RiskAssessment struct {
	Score           int       `json:"score"`
	Level           RiskLevel `json:"level"`
	Recommendations []string  `json:"recommendations"`
}

// RiskInputs é o subconjunto do registro usado no cálculo de risco.
type RiskInputs struct {
	OperatingStatus OperatingStatus
	SafetyRating    SafetyRating
	PowerUnits      int
	Safety          SafetyMetrics
}

// CarrierRecord é imutável depois de produzido por uma consulta bem-sucedida.
// Uma nova consulta gera um registro novo que substitui o do cache; nunca
// alteramos um registro existente. Quem recebe um registro recebe uma cópia
// (ver Clone).
type CarrierRecord struct {
	DOTNumber       string `json:"dotNumber"`
	MCNumber        string `json:"mcNumber,omitempty"`
	LegalName       string `json:"legalName"`
	DBAName         string `json:"dbaName,omitempty"`
	PhysicalAddress string `json:"physicalAddress"`
	MailingAddress  string `json:"mailingAddress,omitempty"`
	Phone           string `json:"phone"`
	Email           string `json:"email,omitempty"`

	OperatingAuthority string          `json:"operatingAuthority"`
	OperatingStatus    OperatingStatus `json:"operatingStatus"`
	SafetyRating       SafetyRating    `json:"safetyRating"`
	EntityType         string          `json:"entityType"`

	PowerUnits    int    `json:"powerUnits"`
	Drivers       int    `json:"drivers"`
	MCS150Date    string `json:"mcs150Date,omitempty"`
	MCS150Mileage int    `json:"mcs150Mileage,omitempty"`

	EquipmentTypes          []string `json:"equipmentTypes"`
	CargoCarried            []string `json:"cargoCarried"`
	OperationClassification []string `json:"operationClassification"`
	InsuranceRequired       []string `json:"insuranceRequired"`
	BondSurety              []string `json:"bondSurety"`

	SafetyReviewDate string    `json:"safetyReviewDate,omitempty"`
	LastUpdateDate   time.Time `json:"lastUpdateDate"`

	Safety SafetyMetrics  `json:"safety"`
	Risk   RiskAssessment `json:"risk"`
}

func (r CarrierRecord) RiskInputs() RiskInputs {
	return RiskInputs{
		OperatingStatus: r.OperatingStatus,
		SafetyRating:    r.SafetyRating,
		PowerUnits:      r.PowerUnits,
		Safety:          r.Safety,
	}
}

// Clone devolve uma cópia profunda (as listas não são compartilhadas).
func (r CarrierRecord) Clone() CarrierRecord {
	out := r
	out.EquipmentTypes = cloneStrings(r.EquipmentTypes)
	out.CargoCarried = cloneStrings(r.CargoCarried)
	out.OperationClassification = cloneStrings(r.OperationClassification)
	out.InsuranceRequired = cloneStrings(r.InsuranceRequired)
	out.BondSurety = cloneStrings(r.BondSurety)
	out.Risk.Recommendations = cloneStrings(r.Risk.Recommendations)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
