package score

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// ErrInvalidInput is returned when the claim or its bill is missing
var ErrInvalidInput = errors.New("invalid input: claim and bill are required")

// Risk points per layer
const (
	pointsDuplicateHigh   = 3
	pointsDuplicateMedium = 2
	pointsAmountAnomaly   = 3
	pointsPolicyViolation = 4
	pointsIncomplete      = 2

	duplicateHighConfidence   = 70
	duplicateMediumConfidence = 50

	highRiskScore   = 6
	mediumRiskScore = 3
)

// Scorer runs the fraud detection layers and folds them into a report
type Scorer struct {
	exclusions         []string
	currency           string
	duplicateThreshold float64
}

// Option configures a Scorer
type Option func(*Scorer)

// WithExclusions replaces the default general exclusion list
func WithExclusions(exclusions []string) Option {
	return func(s *Scorer) {
		s.exclusions = append([]string(nil), exclusions...)
	}
}

// WithCurrencySymbol sets the symbol used in amount details. An empty
// symbol keeps the default.
func WithCurrencySymbol(symbol string) Option {
	return func(s *Scorer) {
		if symbol != "" {
			s.currency = symbol
		}
	}
}

// NewScorer creates a new scorer
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		exclusions:         model.DefaultExclusions(),
		currency:           DefaultCurrencySymbol,
		duplicateThreshold: AggregateDuplicateThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exclusions returns the configured exclusion list
func (s *Scorer) Exclusions() []string {
	return append([]string(nil), s.exclusions...)
}

// Evaluate scores claim against history. history must not contain claim
// itself; callers append the claim only after Evaluate returns.
func (s *Scorer) Evaluate(claim *model.Claim, bill *model.BillInfo, history []model.Claim) (*model.FraudReport, error) {
	if claim == nil || bill == nil {
		return nil, ErrInvalidInput
	}

	report := &model.FraudReport{
		Duplicates:          []model.DuplicateMatch{},
		PolicyViolations:    []model.ExclusionViolation{},
		InformationComplete: true,
		MissingFields:       []string{},
		RiskFactors:         []string{},
		RiskLevel:           model.RiskLow,
	}

	// Layer 1: duplicates
	report.Duplicates = FindDuplicates(*claim, history, s.duplicateThreshold)
	if len(report.Duplicates) > 0 {
		report.DuplicateConfidence = maxConfidence(report.Duplicates)
		report.RiskFactors = append(report.RiskFactors,
			fmt.Sprintf("Potential duplicate: %.1f%% similarity", report.DuplicateConfidence))
	}

	// Layer 2: amount anomaly
	report.AmountAnomaly, report.AmountDetails = checkAmountAnomaly(claim.Amount, bill.Expense, s.currency)
	if report.AmountAnomaly {
		report.RiskFactors = append(report.RiskFactors, "Amount exceeds bill")
	}

	// Layer 3: policy exclusions
	report.PolicyViolations = MatchExclusions(bill.Diagnosis, s.exclusions)
	for _, v := range report.PolicyViolations {
		report.RiskFactors = append(report.RiskFactors, violationFactor(v))
	}

	// Layer 4: completeness
	report.InformationComplete, report.MissingFields = CheckCompleteness(*claim, *bill)
	if !report.InformationComplete {
		report.RiskFactors = append(report.RiskFactors,
			"Missing required fields: "+strings.Join(report.MissingFields, ", "))
	}

	report.RiskScore = riskScore(report)
	report.RiskLevel = riskLevel(report.RiskScore)

	return report, nil
}

// riskScore adds the points of every layer that fired
func riskScore(r *model.FraudReport) int {
	points := 0

	if r.DuplicateConfidence > duplicateHighConfidence {
		points += pointsDuplicateHigh
	} else if r.DuplicateConfidence > duplicateMediumConfidence {
		points += pointsDuplicateMedium
	}

	if r.AmountAnomaly {
		points += pointsAmountAnomaly
	}

	if len(r.PolicyViolations) > 0 {
		points += pointsPolicyViolation
	}

	if !r.InformationComplete {
		points += pointsIncomplete
	}

	return points
}

func riskLevel(points int) model.RiskLevel {
	switch {
	case points >= highRiskScore:
		return model.RiskHigh
	case points >= mediumRiskScore:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func maxConfidence(matches []model.DuplicateMatch) float64 {
	best := 0.0
	for _, m := range matches {
		if m.Confidence > best {
			best = m.Confidence
		}
	}
	return best
}

func violationFactor(v model.ExclusionViolation) string {
	if v.MatchedBy == model.MatchSubstring {
		return fmt.Sprintf("Exact match: '%s'", v.Exclusion)
	}
	return fmt.Sprintf("Disease '%s' matches exclusion '%s' (%.1f%%)", v.DiseaseMentioned, v.Exclusion, v.Similarity)
}
