package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the LLM provider",
	Long: `Status checks whether the configured LLM provider is reachable.
For Ollama it also lists required models that have not been pulled.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")
	statusCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama); overrides config")
	statusCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name; overrides config")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	// Status never touches the claim store
	cfg.Store.Backend = "memory"

	p, history, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	st := p.Status(ctx)

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	mark := "✗"
	if st.Available {
		mark = "✓"
	}
	if !st.Enabled {
		mark = "-"
	}
	fmt.Printf("%s %s\n", mark, st.Message)
	if len(st.Missing) > 0 {
		fmt.Printf("  Pull with: ollama pull %s\n", strings.Join(st.Missing, " && ollama pull "))
	}
	return nil
}
