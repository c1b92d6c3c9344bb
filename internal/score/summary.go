package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

var summaryRule = strings.Repeat("━", 42)

// FormatSummary renders the fraud report as the plain-text block embedded in
// the narrative prompt
func FormatSummary(r *model.FraudReport) string {
	var b strings.Builder

	b.WriteString("\nFRAUD DETECTION REPORT:\n")
	b.WriteString(summaryRule + "\n")
	fmt.Fprintf(&b, "Fraud Risk Level: %s\n", r.RiskLevel)
	fmt.Fprintf(&b, "Risk Score: %d/10\n\n", r.RiskScore)

	b.WriteString("DUPLICATE DETECTION:\n")
	if len(r.Duplicates) > 0 {
		fmt.Fprintf(&b, "Confidence: %s%%\n", formatNumber(r.DuplicateConfidence))
		fmt.Fprintf(&b, "Detected %d potential duplicates\n\n", len(r.Duplicates))
	} else {
		b.WriteString("Confidence: 0%\n")
		b.WriteString("No duplicates found\n\n")
	}

	b.WriteString("AMOUNT ANALYSIS:\n")
	if r.AmountAnomaly {
		b.WriteString(r.AmountDetails + "\n\n")
	} else {
		b.WriteString("Amount validated - no anomalies\n\n")
	}

	b.WriteString("POLICY VIOLATIONS:\n")
	fmt.Fprintf(&b, "%d violation(s) detected\n", len(r.PolicyViolations))
	if len(r.PolicyViolations) > 0 {
		lines := make([]string, len(r.PolicyViolations))
		for i, v := range r.PolicyViolations {
			lines[i] = fmt.Sprintf("- %s: %s%% match", v.Exclusion, violationPercent(v))
		}
		b.WriteString(strings.Join(lines, "\n") + "\n\n")
	} else {
		b.WriteString("No policy violations\n\n")
	}

	b.WriteString("INFORMATION COMPLETENESS:\n")
	if r.InformationComplete {
		b.WriteString("Status: COMPLETE\n")
	} else {
		b.WriteString("Status: INCOMPLETE\n")
	}
	if len(r.MissingFields) > 0 {
		fmt.Fprintf(&b, "Missing: %s\n\n", strings.Join(r.MissingFields, ", "))
	} else {
		b.WriteString("All required fields present\n\n")
	}

	b.WriteString("RISK FACTORS:\n")
	if len(r.RiskFactors) > 0 {
		lines := make([]string, len(r.RiskFactors))
		for i, f := range r.RiskFactors {
			lines[i] = "• " + f
		}
		b.WriteString(strings.Join(lines, "\n") + "\n")
	} else {
		b.WriteString("• No significant risk factors\n")
	}
	b.WriteString(summaryRule + "\n")

	return b.String()
}

func violationPercent(v model.ExclusionViolation) string {
	if v.MatchedBy == model.MatchSubstring {
		return "100"
	}
	return formatNumber(v.Similarity)
}
