package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// Narrator writes the human-readable decision document
type Narrator struct {
	provider  Provider
	model     string
	maxTokens int
}

// NewNarrator creates a narrator. A nil provider disables narratives.
func NewNarrator(p Provider, model string, maxTokens int) *Narrator {
	return &Narrator{provider: p, model: model, maxTokens: maxTokens}
}

// Enabled reports whether a provider is configured
func (n *Narrator) Enabled() bool {
	return n != nil && n.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (n *Narrator) ProviderName() string {
	if !n.Enabled() {
		return ""
	}
	return n.provider.Name()
}

// Narrate generates the decision document. When disabled it returns a
// narrative with Enabled false and no error.
func (n *Narrator) Narrate(ctx context.Context, req NarrativeRequest) (*model.Narrative, error) {
	if !n.Enabled() {
		return &model.Narrative{Enabled: false}, nil
	}

	resp, err := n.provider.Generate(ctx, Request{
		System:      decisionSystemPrompt,
		Prompt:      BuildDecisionPrompt(req),
		Model:       n.model,
		MaxTokens:   n.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	narrative := &model.Narrative{
		Enabled:  true,
		Provider: n.provider.Name(),
		Model:    resp.Model,
		Document: resp.Text,
	}
	if narrative.Model == "" {
		narrative.Model = n.model
	}

	upper := strings.ToUpper(resp.Text)
	if !strings.Contains(upper, "ACCEPTED") && !strings.Contains(upper, "REJECTED") {
		narrative.Warnings = append(narrative.Warnings, "narrative does not state ACCEPTED or REJECTED")
	}
	if resp.Text == "" {
		narrative.Warnings = append(narrative.Warnings, "narrative is empty")
	}

	return narrative, nil
}
