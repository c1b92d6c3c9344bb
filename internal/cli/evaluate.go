package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimtrackr/internal/corpus"
	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/pipeline"
)

var (
	sub          pipeline.Submission
	billFile     string
	jsonOut      string
	mdOut        string
	timeout      time.Duration
	llmProvider  string
	llmModel     string
	storeBackend string
	noCache      bool
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a single claim for fraud risk",
	Long: `Evaluate runs one claim through the full flow:
- Extract the diagnosis and billed amount from the bill text (LLM, optional)
- Compare with recorded claims for duplicates
- Match the diagnosis against the exclusion list
- Check the claimed amount against the bill
- Check for missing information
- Write a decision document (LLM, optional)
- Record the claim in the history store

Example:
  claimtrackr evaluate --name "Asha Rao" --claim-type hospitalization \
    --claim-reason "dengue fever" --amount 42000 --bill bill.txt
  claimtrackr evaluate ... --llm-provider ollama --md decision.md --json decision.json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&sub.Name, "name", "", "patient name")
	evaluateCmd.Flags().StringVar(&sub.Address, "address", "", "patient address")
	evaluateCmd.Flags().StringVar(&sub.ClaimType, "claim-type", "", "claim type (e.g. hospitalization, outpatient)")
	evaluateCmd.Flags().StringVar(&sub.ClaimReason, "claim-reason", "", "reason for the claim")
	evaluateCmd.Flags().StringVar(&sub.Date, "date", "", "date of service, YYYY-MM-DD (default: today)")
	evaluateCmd.Flags().StringVar(&sub.MedicalFacility, "facility", "", "medical facility")
	evaluateCmd.Flags().StringVar(&sub.TotalClaimAmount, "amount", "", "total claim amount")
	evaluateCmd.Flags().StringVar(&sub.Description, "description", "", "free-text description")
	evaluateCmd.Flags().StringVar(&sub.BillText, "bill-text", "", "medical bill text")
	evaluateCmd.Flags().StringVar(&billFile, "bill", "", "file containing the medical bill text")

	evaluateCmd.Flags().StringVar(&jsonOut, "json", "", "write the decision as JSON to this path")
	evaluateCmd.Flags().StringVar(&mdOut, "md", "", "write the decision document as Markdown to this path")
	evaluateCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "evaluation timeout")

	addEngineFlags(evaluateCmd)
}

// addEngineFlags registers the overrides shared by commands that build a pipeline
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama); overrides config")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name; overrides config")
	cmd.Flags().StringVar(&storeBackend, "store", "", "claim store (memory, postgres, redis); overrides config")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the bill extraction cache")
}

// engineConfig loads the config and applies the command-line overrides
func engineConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
		cfg.LLM.ExtractionModel = llmModel
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// openPipeline opens the claim store and builds a pipeline over it
func openPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, *corpus.Corpus, error) {
	history, err := corpus.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open claim store: %w", err)
	}
	p, err := pipeline.NewPipeline(cfg, history)
	if err != nil {
		_ = history.Close()
		return nil, nil, err
	}
	return p, history, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if billFile != "" {
		data, err := os.ReadFile(billFile)
		if err != nil {
			return fmt.Errorf("read bill: %w", err)
		}
		sub.BillText = string(data)
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	p, history, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Claim store: %s\n", cfg.Store.Backend)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "✓ LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
	}

	decision, err := p.Process(ctx, sub)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	renderer.RenderSummary(os.Stdout, decision)

	if jsonOut != "" {
		if err := renderer.RenderJSON(decision, jsonOut); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON decision: %s\n", jsonOut)
	}
	if mdOut != "" {
		if err := renderer.RenderNarrative(decision, mdOut); err != nil {
			return fmt.Errorf("render narrative: %w", err)
		}
		if decision.Narrative != nil && decision.Narrative.Document != "" {
			fmt.Fprintf(os.Stderr, "✓ Decision document: %s\n", mdOut)
		} else {
			fmt.Fprintf(os.Stderr, "No decision document (LLM disabled or failed)\n")
		}
	}

	return nil
}
