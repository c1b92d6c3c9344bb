package score

import (
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// Required field names, in check order
const (
	FieldPatientName     = "patient_name"
	FieldDiagnosis       = "diagnosis"
	FieldAmount          = "amount"
	FieldDate            = "date"
	FieldMedicalFacility = "medical_facility"
)

// CheckCompleteness reports whether every required field is present.
// The diagnosis is taken from the bill, everything else from the claim.
func CheckCompleteness(claim model.Claim, bill model.BillInfo) (bool, []string) {
	fields := []struct {
		name  string
		value string
	}{
		{FieldPatientName, claim.PatientName},
		{FieldDiagnosis, bill.Diagnosis},
		{FieldAmount, claim.Amount},
		{FieldDate, claim.Date},
		{FieldMedicalFacility, claim.MedicalFacility},
	}

	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	return len(missing) == 0, missing
}
