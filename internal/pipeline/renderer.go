package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// Renderer writes decisions to files and terminals
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes the decision as indented JSON
func (r *Renderer) RenderJSON(d *model.Decision, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderNarrative writes the narrative document as Markdown. It does nothing
// when the decision has no narrative text.
func (r *Renderer) RenderNarrative(d *model.Decision, path string) error {
	if d.Narrative == nil || d.Narrative.Document == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<!-- claim %s, generated by %s/%s -->\n\n", d.Claim.ID, d.Narrative.Provider, d.Narrative.Model)
	b.WriteString(d.Narrative.Document)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the headline, the fraud block and any warnings
func (r *Renderer) RenderSummary(w io.Writer, d *model.Decision) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Claim %s\n", d.Claim.ID)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "Patient:   %s\n", d.Claim.PatientName)
	fmt.Fprintf(w, "Diagnosis: %s\n", d.Claim.Diagnosis)
	fmt.Fprintf(w, "Amount:    %s\n", d.Claim.Amount)
	fmt.Fprintf(w, "Date:      %s\n", d.Claim.Date)

	if r.verbose {
		billed := "unknown"
		if d.Bill.Expense != nil {
			billed = fmt.Sprintf("%g", *d.Bill.Expense)
		}
		fmt.Fprintf(w, "Bill:      %s, billed %s\n", d.Bill.Diagnosis, billed)
	}

	fmt.Fprint(w, d.Summary)

	if n := d.Narrative; n != nil && n.Enabled {
		if n.Document != "" {
			fmt.Fprintf(w, "Narrative: generated by %s (%s)\n", n.Provider, n.Model)
		}
		for _, warning := range n.Warnings {
			fmt.Fprintf(w, "⚠ Narrative: %s\n", warning)
		}
	}
	fmt.Fprintln(w)
}
