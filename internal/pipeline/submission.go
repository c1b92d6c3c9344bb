package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// ErrMissingFields rejects a submission before any evaluation happens
var ErrMissingFields = errors.New("please fill in all required fields")

// Submission is a claim as entered by the claimant
type Submission struct {
	Name             string `json:"name" yaml:"name"`
	Address          string `json:"address,omitempty" yaml:"address,omitempty"`
	ClaimType        string `json:"claim_type" yaml:"claim_type"`
	ClaimReason      string `json:"claim_reason" yaml:"claim_reason"`
	Date             string `json:"date,omitempty" yaml:"date,omitempty"`
	MedicalFacility  string `json:"medical_facility,omitempty" yaml:"medical_facility,omitempty"`
	TotalClaimAmount string `json:"total_claim_amount" yaml:"total_claim_amount"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	BillText         string `json:"bill_text" yaml:"bill_text"`
}

// Validate checks the fields a claim cannot be evaluated without
func (s Submission) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"claim_type", s.ClaimType},
		{"claim_reason", s.ClaimReason},
		{"medical_bill", s.BillText},
		{"total_claim_amount", s.TotalClaimAmount},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// Claim builds the claim record. The diagnosis is the disease read from the
// bill, or the claim reason when the bill named none. An empty date means
// the day of submission.
func (s Submission) Claim(bill model.BillInfo, now time.Time) model.Claim {
	diagnosis := bill.Diagnosis
	if strings.TrimSpace(diagnosis) == "" {
		diagnosis = s.ClaimReason
	}

	date := s.Date
	if strings.TrimSpace(date) == "" {
		date = now.Format(model.DateLayout)
	}

	return model.Claim{
		ID:              model.NewClaimID(),
		PatientName:     s.Name,
		Diagnosis:       diagnosis,
		Amount:          s.TotalClaimAmount,
		Date:            date,
		MedicalFacility: s.MedicalFacility,
		ClaimType:       model.ClaimType(strings.ToLower(strings.TrimSpace(s.ClaimType))),
	}
}
