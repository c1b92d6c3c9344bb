package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

const (
	billPromptLimit    = 2000
	billNarrativeLimit = 1500
)

const billSystemPrompt = "You extract structured fields from medical bills. Answer with JSON only."

const decisionSystemPrompt = "You are an insurance claims decision engine. You explain decisions transparently and never change the fraud analysis you are given."

// BuildBillPrompt asks for the disease and total expense of a bill
func BuildBillPrompt(billText string) string {
	return fmt.Sprintf(`Extract disease and expense from this medical bill.
Return ONLY a JSON object: {"disease": "name", "expense": number}

Bill: %s`, truncateRunes(billText, billPromptLimit))
}

// NarrativeRequest carries everything the decision narrative is written from
type NarrativeRequest struct {
	Claim       model.Claim
	Bill        model.BillInfo
	Address     string
	ClaimReason string
	Description string

	// ApprovalContext describes required documents and coverage rules
	ApprovalContext string

	// ExclusionContext lists the policy exclusions
	ExclusionContext string

	BillText     string
	FraudSummary string
	Currency     string
}

// BuildDecisionPrompt renders the narrative prompt
func BuildDecisionPrompt(req NarrativeRequest) string {
	currency := req.Currency
	if currency == "" {
		currency = "₹"
	}

	billed := "Unknown"
	if req.Bill.Expense != nil {
		billed = fmt.Sprintf("%g", *req.Bill.Expense)
	}
	disease := req.Bill.Diagnosis
	if disease == "" {
		disease = model.UnknownDiagnosis
	}

	var b strings.Builder

	b.WriteString("You make the FINAL verdict on an insurance claim, with complete transparency and justification.\n\n")

	b.WriteString("CLAIM INFORMATION:\n")
	fmt.Fprintf(&b, "Patient Name: %s\n", req.Claim.PatientName)
	fmt.Fprintf(&b, "Address: %s\n", req.Address)
	fmt.Fprintf(&b, "Claim Type: %s\n", req.Claim.ClaimType)
	fmt.Fprintf(&b, "Claim Reason: %s\n", req.ClaimReason)
	fmt.Fprintf(&b, "Medical Facility: %s\n", req.Claim.MedicalFacility)
	fmt.Fprintf(&b, "Treatment Date: %s\n", req.Claim.Date)
	fmt.Fprintf(&b, "Claimed Amount: %s%s\n", currency, req.Claim.Amount)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Extracted Disease: %s\n", disease)
	fmt.Fprintf(&b, "Billed Amount: %s%s\n\n", currency, billed)

	b.WriteString("POLICY KNOWLEDGE BASE:\n")
	b.WriteString(orDefault(req.ApprovalContext, "No policy documents available."))
	b.WriteString("\n\nGENERAL EXCLUSIONS:\n")
	b.WriteString(orDefault(req.ExclusionContext, "Using default exclusion list."))
	b.WriteString("\n\nMEDICAL BILL DETAILS:\nBill Content:\n")
	b.WriteString(truncateRunes(req.BillText, billNarrativeLimit))
	b.WriteString("\n\nFRAUD ANALYSIS:\n")
	b.WriteString(req.FraudSummary)
	fmt.Fprintf(&b, "\n\nMAXIMUM CLAIMABLE AMOUNT: %s%s\n\n", currency, req.Claim.Amount)

	b.WriteString(`Write a Markdown decision report with these sections:

## CLAIM STATUS: ACCEPTED or REJECTED
### Verification Summary
INFORMATION (TRUE/FALSE), EXCLUSION CHECK (TRUE/FALSE), FRAUD RISK (LOW/MEDIUM/HIGH), FINAL STATUS
### Executive Summary
2-3 sentences on the decision and its key reasons.
### Decision Reasons
For a rejection: the primary reason, the policy rule violated, and each fraud indicator.
For an approval: the justification and the approved amount calculation.
### Detailed Medical Assessment
### Policy References
### Customer Communication
A clear, respectful message suitable for sending to the claimant.
### Next Steps

Make a definitive decision. Reference specific policy sections. Keep the fraud analysis figures exactly as given.
`)

	return b.String()
}

// ExclusionContext renders the exclusion list as prompt lines
func ExclusionContext(exclusions []string) string {
	if len(exclusions) == 0 {
		return ""
	}
	lines := make([]string, len(exclusions))
	for i, e := range exclusions {
		lines[i] = fmt.Sprintf("%d. %s", i+1, e)
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
