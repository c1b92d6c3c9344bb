package model

import "time"

// FraudReport is the outcome of one claim evaluation.
// It is built once by the scorer and never mutated afterwards.
type FraudReport struct {
	DuplicateConfidence float64              `json:"duplicate_confidence"`
	Duplicates          []DuplicateMatch     `json:"duplicate_details"`
	AmountAnomaly       bool                 `json:"amount_anomaly"`
	AmountDetails       string               `json:"amount_details"`
	PolicyViolations    []ExclusionViolation `json:"policy_violations"`
	InformationComplete bool                 `json:"information_complete"`
	MissingFields       []string             `json:"missing_fields"`
	RiskFactors         []string             `json:"risk_factors"`
	RiskScore           int                  `json:"risk_score"`
	RiskLevel           RiskLevel            `json:"fraud_risk_level"`
}

// DuplicateMatch links the evaluated claim to a similar historical claim
type DuplicateMatch struct {
	ClaimID    string   `json:"claim_id"`
	Confidence float64  `json:"confidence"` // 0-100, one decimal
	Reasons    []string `json:"reasons"`
	ClaimDate  string   `json:"claim_date"`
	Amount     string   `json:"amount"`
	Diagnosis  string   `json:"diagnosis"`
}

// ExclusionViolation records a diagnosis that matched a policy exclusion
type ExclusionViolation struct {
	Exclusion        string      `json:"exclusion"`
	Similarity       float64     `json:"similarity"` // 0-100
	DiseaseMentioned string      `json:"disease_mentioned"`
	MatchedBy        MatchMethod `json:"matched_by"`
}

// MatchMethod records how an exclusion matched
type MatchMethod string

const (
	MatchCosine    MatchMethod = "cosine"    // Raw-count cosine above cutoff
	MatchSubstring MatchMethod = "substring" // Containment fallback on empty vocabulary
)

// RiskLevel is the discrete fraud risk bucket
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Decision bundles everything produced for one submission
type Decision struct {
	Claim       Claim       `json:"claim"`
	Bill        BillInfo    `json:"bill"`
	Report      FraudReport `json:"fraud_report"`
	Summary     string      `json:"summary"`
	Narrative   *Narrative  `json:"narrative,omitempty"`
	EvaluatedAt time.Time   `json:"evaluated_at"`
}

// Narrative contains the optional LLM-generated decision document.
// It is produced after scoring and never feeds back into the report.
type Narrative struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Document string   `json:"document,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
