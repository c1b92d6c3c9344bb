package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyJSON bool

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded claims",
	Long:  `List every claim recorded in the configured store, oldest first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print claims as JSON")
	historyCmd.Flags().StringVar(&storeBackend, "store", "", "claim store (memory, postgres, redis); overrides config")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	cfg.LLM.Provider = ""

	p, history, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	claims, err := p.History(ctx)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	}

	if len(claims) == 0 {
		fmt.Fprintf(os.Stderr, "No claims recorded in %s store\n", cfg.Store.Backend)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tDIAGNOSIS\tAMOUNT\tDATE\tFACILITY")
	for _, c := range claims {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.PatientName, c.Diagnosis, c.Amount, c.Date, c.MedicalFacility)
	}
	return tw.Flush()
}
