package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimtrackr/internal/model"
)

var (
	dupClaim model.Claim
	dupJSON  bool
)

// duplicatesCmd represents the duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Look up recorded claims resembling a claim",
	Long: `Duplicates compares a claim with the recorded history without scoring
or recording it. Only matches at or above 70% confidence are listed.

Example:
  claimtrackr duplicates --name "Asha Rao" --diagnosis "dengue fever" --amount 42000 --date 2024-06-01`,
	RunE: runDuplicates,
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().StringVar(&dupClaim.ID, "id", "", "claim ID to skip in the history")
	duplicatesCmd.Flags().StringVar(&dupClaim.PatientName, "name", "", "patient name")
	duplicatesCmd.Flags().StringVar(&dupClaim.Diagnosis, "diagnosis", "", "diagnosis")
	duplicatesCmd.Flags().StringVar(&dupClaim.Amount, "amount", "", "claimed amount")
	duplicatesCmd.Flags().StringVar(&dupClaim.Date, "date", "", "date of service, YYYY-MM-DD")
	duplicatesCmd.Flags().BoolVar(&dupJSON, "json", false, "print matches as JSON")
	duplicatesCmd.Flags().StringVar(&storeBackend, "store", "", "claim store (memory, postgres, redis); overrides config")
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	// Lookups never call the LLM
	cfg.LLM.Provider = ""

	p, history, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	matches, err := p.Duplicates(ctx, dupClaim)
	if err != nil {
		return err
	}

	if dupJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Println("No duplicates found")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s  %.1f%%  %s  %s  %s\n", m.ClaimID, m.Confidence, m.ClaimDate, m.Amount, m.Diagnosis)
		fmt.Printf("    %s\n", strings.Join(m.Reasons, "; "))
	}
	return nil
}
