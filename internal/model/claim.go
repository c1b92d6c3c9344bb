package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format claims are submitted in
const DateLayout = "2006-01-02"

// Claim represents a single reimbursement request. Amount and Date keep the
// submitted text so that malformed values can be reported instead of rejected.
type Claim struct {
	ID              string    `json:"id"`
	PatientName     string    `json:"patient_name"`
	Diagnosis       string    `json:"diagnosis"`
	Amount          string    `json:"amount"`
	Date            string    `json:"date"`
	MedicalFacility string    `json:"medical_facility"`
	ClaimType       ClaimType `json:"claim_type,omitempty"`
}

// ClaimType categorizes the reimbursement request
type ClaimType string

const (
	ClaimTypeHospitalization ClaimType = "hospitalization" // Inpatient stay
	ClaimTypeOutpatient      ClaimType = "outpatient"      // Consultation or day care
	ClaimTypePharmacy        ClaimType = "pharmacy"        // Prescribed medication
	ClaimTypeDiagnostic      ClaimType = "diagnostic"      // Lab tests and imaging
)

// NewClaimID returns a fresh claim identifier
func NewClaimID() string {
	return "CLM-" + uuid.NewString()
}

// ParsedAmount returns the claimed amount, or false if it is not numeric
func (c Claim) ParsedAmount() (float64, bool) {
	return ParseAmount(c.Amount)
}

// ParsedDate returns the claim date, or false if it is not a YYYY-MM-DD date
func (c Claim) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(c.Date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// maxAmountExponent bounds the decimal exponent accepted by ParseAmount.
// Float64 on larger exponents expands 10^exp as a big integer.
const maxAmountExponent = 64

// ParseAmount parses a free-text monetary amount. Values outside the
// float64 range or with an absurd exponent are rejected.
func ParseAmount(raw string) (float64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// BillInfo is what the extraction collaborator read off a medical bill
type BillInfo struct {
	Diagnosis string   `json:"disease"`
	Expense   *float64 `json:"expense"`
}

// UnknownDiagnosis is reported when nothing could be extracted from a bill
const UnknownDiagnosis = "Unknown"

// UnknownBill is the extraction result used on any failure
func UnknownBill() BillInfo {
	return BillInfo{Diagnosis: UnknownDiagnosis}
}
