package infra

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"carrier-gateway/carrier/registry/domain"
)

// O registro devolve números ora como número, ora como string, e listas ora
// como array, ora como texto separado por vírgula. Os tipos flex* aceitam os
// dois formatos.

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(b)
	return nil
}

type flexInt int

// UnmarshalJSON aceita número ou string; valores não numéricos viram 0.
func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(leadingInt(string(s)))
	return nil
}

// leadingInt lê os dígitos iniciais ("12.5" -> 12, "abc" -> 0).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if strings.HasPrefix(s, "-") {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

type flexList []string

func (f *flexList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = nil
	case b[0] == '[':
		var items []flexString
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, string(it))
		}
		*f = out
	default:
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*f = splitList(string(s))
	}
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

type rawCarrier struct {
	DOTNumber    flexString `json:"dotNumber"`
	USDOTNumber  flexString `json:"usdotNumber"`
	DocketNumber flexString `json:"docketNumber"`
	MCNumber     flexString `json:"mcNumber"`
	LegalName    flexString `json:"legalName"`
	DBAName      flexString `json:"dbaName"`

	PhyStreet  flexString `json:"phyStreet"`
	PhyCity    flexString `json:"phyCity"`
	PhyState   flexString `json:"phyState"`
	PhyZipcode flexString `json:"phyZipcode"`

	MailStreet  flexString `json:"mailStreet"`
	MailCity    flexString `json:"mailCity"`
	MailState   flexString `json:"mailState"`
	MailZipcode flexString `json:"mailZipcode"`

	Telephone flexString `json:"telephone"`
	Phone     flexString `json:"phone"`
	Email     flexString `json:"email"`

	OperatingStatus flexString `json:"operatingStatus"`
	SafetyRating    flexString `json:"safetyRating"`
	EntityType      flexString `json:"entityType"`

	TotalPowerUnits flexInt    `json:"totalPowerUnits"`
	TotalDrivers    flexInt    `json:"totalDrivers"`
	MCS150Date      flexString `json:"mcs150Date"`
	MCS150Mileage   flexInt    `json:"mcs150Mileage"`

	EquipmentTypes          flexList `json:"equipmentTypes"`
	CargoCarried            flexList `json:"cargoCarried"`
	OperationClassification flexList `json:"operationClassification"`
	InsuranceRequired       flexList `json:"insuranceRequired"`
	BondSurety              flexList `json:"bondSurety"`

	SafetyReviewDate flexString `json:"safetyReviewDate"`

	CrashTotal  flexInt `json:"crashTotal"`
	CrashFatal  flexInt `json:"crashFatal"`
	CrashInjury flexInt `json:"crashInjury"`
	CrashTow    flexInt `json:"crashTow"`
	CrashHazmat flexInt `json:"crashHazmat"`

	InspectionTotal   flexInt `json:"inspectionTotal"`
	InspectionOOS     flexInt `json:"inspectionOOS"`
	DriverOOS         flexInt `json:"driverOOS"`
	VehicleOOS        flexInt `json:"vehicleOOS"`
	HazmatInspections flexInt `json:"hazmatInspections"`

	DriverViolations  flexInt `json:"driverViolations"`
	VehicleViolations flexInt `json:"vehicleViolations"`
	HazmatViolations  flexInt `json:"hazmatViolations"`
}

// contentItem aceita tanto {"carrier": {...}} quanto o objeto direto.
type contentItem struct {
	Carrier *rawCarrier `json:"carrier"`
	rawCarrier
}

type registryResponse struct {
	Content []contentItem `json:"content"`
}

func (c contentItem) record() rawCarrier {
	if c.Carrier != nil {
		return *c.Carrier
	}
	return c.rawCarrier
}

func firstNonEmpty(vals ...flexString) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

func (r rawCarrier) toRecord(now time.Time) domain.CarrierRecord {
	return domain.CarrierRecord{
		DOTNumber:       firstNonEmpty(r.DOTNumber, r.USDOTNumber),
		MCNumber:        firstNonEmpty(r.DocketNumber, r.MCNumber),
		LegalName:       string(r.LegalName),
		DBAName:         string(r.DBAName),
		PhysicalAddress: formatAddress(r.PhyStreet, r.PhyCity, r.PhyState, r.PhyZipcode),
		MailingAddress:  formatAddress(r.MailStreet, r.MailCity, r.MailState, r.MailZipcode),
		Phone:           firstNonEmpty(r.Telephone, r.Phone),
		Email:           string(r.Email),

		OperatingAuthority: firstNonEmpty(r.OperatingStatus, "UNKNOWN"),
		OperatingStatus:    mapOperatingStatus(string(r.OperatingStatus)),
		SafetyRating:       mapSafetyRating(string(r.SafetyRating)),
		EntityType:         firstNonEmpty(r.EntityType, "UNKNOWN"),

		PowerUnits:    int(r.TotalPowerUnits),
		Drivers:       int(r.TotalDrivers),
		MCS150Date:    string(r.MCS150Date),
		MCS150Mileage: int(r.MCS150Mileage),

		EquipmentTypes:          nonNil(r.EquipmentTypes),
		CargoCarried:            nonNil(r.CargoCarried),
		OperationClassification: nonNil(r.OperationClassification),
		InsuranceRequired:       nonNil(r.InsuranceRequired),
		BondSurety:              nonNil(r.BondSurety),

		SafetyReviewDate: string(r.SafetyReviewDate),
		LastUpdateDate:   now.UTC(),

		Safety: domain.SafetyMetrics{
			CrashTotal:        int(r.CrashTotal),
			CrashFatal:        int(r.CrashFatal),
			CrashInjury:       int(r.CrashInjury),
			CrashTow:          int(r.CrashTow),
			CrashHazmat:       int(r.CrashHazmat),
			InspectionTotal:   int(r.InspectionTotal),
			InspectionOOS:     int(r.InspectionOOS),
			DriverOOS:         int(r.DriverOOS),
			VehicleOOS:        int(r.VehicleOOS),
			HazmatInspections: int(r.HazmatInspections),
			DriverViolations:  int(r.DriverViolations),
			VehicleViolations: int(r.VehicleViolations),
			HazmatViolations:  int(r.HazmatViolations),
		},
	}
}

func nonNil(l flexList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// formatAddress monta "rua, cidade, UF CEP" sem separadores sobrando.
func formatAddress(street, city, state, zip flexString) string {
	var parts []string
	for _, p := range []flexString{street, city} {
		if p != "" {
			parts = append(parts, string(p))
		}
	}
	if tail := strings.TrimSpace(string(state) + " " + string(zip)); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

func mapOperatingStatus(s string) domain.OperatingStatus {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case u == "":
		return domain.StatusNotAuthorized
	case strings.Contains(u, "INACTIVE"):
		return domain.StatusNotAuthorized
	case strings.Contains(u, "ACTIVE"):
		return domain.StatusActive
	case strings.Contains(u, "OUT"), strings.Contains(u, "SERVICE"):
		return domain.StatusOutOfService
	}
	return domain.StatusNotAuthorized
}

// mapSafetyRating testa UNSATISFACTORY antes de SATISFACTORY (um é substring do outro).
func mapSafetyRating(s string) domain.SafetyRating {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case u == "":
		return domain.RatingNotRated
	case strings.Contains(u, "UNSATISFACTORY"):
		return domain.RatingUnsatisfactory
	case strings.Contains(u, "SATISFACTORY"):
		return domain.RatingSatisfactory
	case strings.Contains(u, "CONDITIONAL"):
		return domain.RatingConditional
	}
	return domain.RatingNotRated
}
