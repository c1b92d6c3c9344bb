package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/similarity"
)

const (
	// DefaultDuplicateThreshold is used for standalone duplicate lookups
	DefaultDuplicateThreshold = 0.7

	// AggregateDuplicateThreshold is used inside the fraud evaluation
	AggregateDuplicateThreshold = 0.6
)

// Component weights sum to 1.0. Each component contributes its full weight
// or nothing.
const (
	identityWeight  = 0.3
	diagnosisWeight = 0.4
	amountWeight    = 0.2
	temporalWeight  = 0.1

	diagnosisSimilarityCutoff = 0.7
	amountVarianceCutoff      = 0.15
	temporalWindowDays        = 30
)

// FindDuplicates compares claim against every historical claim and returns
// those whose composite score reaches threshold, in history order
func FindDuplicates(claim model.Claim, history []model.Claim, threshold float64) []model.DuplicateMatch {
	matches := []model.DuplicateMatch{}

	for _, hist := range history {
		score, reasons := duplicateScore(claim, hist)
		if score < threshold {
			continue
		}

		id := hist.ID
		if id == "" {
			id = "Unknown"
		}

		matches = append(matches, model.DuplicateMatch{
			ClaimID:    id,
			Confidence: round1(score * 100),
			Reasons:    reasons,
			ClaimDate:  hist.Date,
			Amount:     hist.Amount,
			Diagnosis:  hist.Diagnosis,
		})
	}

	return matches
}

// duplicateScore sums the four gated components in a fixed order.
// Two blank patient names do not count as the same patient, unlike a plain
// case-insensitive comparison; blank names are flagged by completeness.
func duplicateScore(current, hist model.Claim) (float64, []string) {
	score := 0.0
	reasons := []string{}

	// 1. Patient identity
	if current.PatientName != "" && strings.ToLower(current.PatientName) == strings.ToLower(hist.PatientName) {
		score += identityWeight
		reasons = append(reasons, "Same patient")
	}

	// 2. Diagnosis similarity
	currentDiagnosis := strings.ToLower(current.Diagnosis)
	histDiagnosis := strings.ToLower(hist.Diagnosis)
	if currentDiagnosis != "" && histDiagnosis != "" {
		sim := similarity.Compare(currentDiagnosis, histDiagnosis, similarity.TermFrequency)
		if sim.Defined && sim.Value > diagnosisSimilarityCutoff {
			score += diagnosisWeight
			reasons = append(reasons, fmt.Sprintf("Similar diagnosis (%s match)", percent(sim.Value)))
		}
	}

	// 3. Amount variance
	if variance, ok := amountVariance(current, hist); ok && variance < amountVarianceCutoff {
		score += amountWeight
		reasons = append(reasons, fmt.Sprintf("Similar amount (%s variance)", percent(variance)))
	}

	// 4. Temporal proximity
	if days, ok := daysApart(current, hist); ok && days < temporalWindowDays {
		score += temporalWeight
		reasons = append(reasons, fmt.Sprintf("Recent claim (%d days apart)", days))
	}

	return score, reasons
}

// amountVariance is |a-b| / max(a,b); not applicable unless both amounts are positive numbers
func amountVariance(a, b model.Claim) (float64, bool) {
	amtA, okA := a.ParsedAmount()
	amtB, okB := b.ParsedAmount()
	if !okA || !okB || amtA <= 0 || amtB <= 0 {
		return 0, false
	}
	return math.Abs(amtA-amtB) / math.Max(amtA, amtB), true
}

// daysApart is the absolute calendar-day distance; not applicable on unparsable dates
func daysApart(a, b model.Claim) (int, bool) {
	dateA, okA := a.ParsedDate()
	dateB, okB := b.ParsedDate()
	if !okA || !okB {
		return 0, false
	}
	// Sub saturates at about 292 years, Unix seconds do not
	days := int((dateA.Unix() - dateB.Unix()) / 86400)
	if days < 0 {
		days = -days
	}
	return days, true
}
