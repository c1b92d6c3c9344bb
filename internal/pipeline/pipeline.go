// Package pipeline runs a submission through extraction, scoring and
// narration, and records it in the claim history.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimtrackr/internal/cache"
	"github.com/ppiankov/claimtrackr/internal/corpus"
	"github.com/ppiankov/claimtrackr/internal/llm"
	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/score"
)

// Pipeline evaluates submissions against a shared claim history
type Pipeline struct {
	scorer    *score.Scorer
	history   *corpus.Corpus
	extractor *llm.BillExtractor
	narrator  *llm.Narrator
	provider  llm.Provider

	approvalContext  string
	exclusionContext string
	currency         string

	logger zerolog.Logger
	now    func() time.Time
}

// NewPipeline builds the configured LLM provider and wires it in
func NewPipeline(cfg *model.Config, history *corpus.Corpus) (*Pipeline, error) {
	provider, err := llm.NewGuardedProvider(llm.ConfigFromModel(cfg.LLM, cfg.RateLimiting))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	return NewWithProvider(cfg, history, provider)
}

// NewWithProvider wires an explicit provider. A nil provider runs scoring
// only: bills read as unknown and no narrative is written.
func NewWithProvider(cfg *model.Config, history *corpus.Corpus, provider llm.Provider) (*Pipeline, error) {
	exclusions := cfg.Scoring.Exclusions
	if len(exclusions) == 0 {
		exclusions = model.DefaultExclusions()
	}

	var approval string
	if cfg.LLM.PolicyFile != "" {
		data, err := os.ReadFile(cfg.LLM.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("read policy file: %w", err)
		}
		approval = string(data)
	}

	extractionModel := cfg.LLM.ExtractionModel
	if extractionModel == "" {
		extractionModel = cfg.LLM.Model
	}

	return &Pipeline{
		scorer: score.NewScorer(
			score.WithExclusions(exclusions),
			score.WithCurrencySymbol(cfg.Scoring.CurrencySymbol),
		),
		history:          history,
		extractor:        llm.NewBillExtractor(provider, cache.FromConfig(cfg.Cache), extractionModel),
		narrator:         llm.NewNarrator(provider, cfg.LLM.Model, cfg.LLM.MaxTokens),
		provider:         provider,
		approvalContext:  approval,
		exclusionContext: llm.ExclusionContext(exclusions),
		currency:         cfg.Scoring.CurrencySymbol,
		logger:           log.With().Str("component", "pipeline").Logger(),
		now:              time.Now,
	}, nil
}

// Process evaluates one submission. The history is read before scoring and
// the new claim is appended only after the decision is complete, so a claim
// is never compared with itself.
func (p *Pipeline) Process(ctx context.Context, sub Submission) (*model.Decision, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	bill := p.extractor.Extract(ctx, sub.BillText)
	claim := sub.Claim(bill, p.now())
	logger := p.logger.With().Str("claim_id", claim.ID).Logger()

	history, err := p.history.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	report, err := p.scorer.Evaluate(&claim, &bill, history)
	if err != nil {
		return nil, fmt.Errorf("score claim: %w", err)
	}

	decision := &model.Decision{
		Claim:       claim,
		Bill:        bill,
		Report:      *report,
		Summary:     score.FormatSummary(report),
		EvaluatedAt: p.now().UTC(),
	}

	if p.narrator.Enabled() {
		decision.Narrative = p.narrate(ctx, logger, sub, decision)
	}

	if err := p.history.Append(ctx, claim); err != nil {
		return nil, fmt.Errorf("record claim: %w", err)
	}

	logger.Info().
		Str("risk_level", string(report.RiskLevel)).
		Int("risk_score", report.RiskScore).
		Int("duplicates", len(report.Duplicates)).
		Int("violations", len(report.PolicyViolations)).
		Msg("claim evaluated")

	return decision, nil
}

// A failed narrative is reported as a warning and never fails the decision
func (p *Pipeline) narrate(ctx context.Context, logger zerolog.Logger, sub Submission, d *model.Decision) *model.Narrative {
	narrative, err := p.narrator.Narrate(ctx, llm.NarrativeRequest{
		Claim:            d.Claim,
		Bill:             d.Bill,
		Address:          sub.Address,
		ClaimReason:      sub.ClaimReason,
		Description:      sub.Description,
		ApprovalContext:  p.approvalContext,
		ExclusionContext: p.exclusionContext,
		BillText:         sub.BillText,
		FraudSummary:     d.Summary,
		Currency:         p.currency,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("narrative generation failed")
		return &model.Narrative{
			Enabled:  true,
			Provider: p.narrator.ProviderName(),
			Warnings: []string{err.Error()},
		}
	}
	return narrative
}

// Duplicates looks up prior claims resembling claim using the stricter
// presentation threshold. The claim itself is skipped if already recorded.
func (p *Pipeline) Duplicates(ctx context.Context, claim model.Claim) ([]model.DuplicateMatch, error) {
	history, err := p.history.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	others := history[:0]
	for _, c := range history {
		if claim.ID == "" || c.ID != claim.ID {
			others = append(others, c)
		}
	}
	return score.FindDuplicates(claim, others, score.DefaultDuplicateThreshold), nil
}

// History returns every recorded claim in insertion order
func (p *Pipeline) History(ctx context.Context) ([]model.Claim, error) {
	return p.history.Snapshot(ctx)
}

// Status probes the LLM provider
func (p *Pipeline) Status(ctx context.Context) llm.Status {
	return llm.CheckStatus(ctx, p.provider)
}
