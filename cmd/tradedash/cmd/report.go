package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/analytics"
	"github.com/rustyeddy/tradedash/dashboard"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the performance report to the terminal",
	Long: `Load the trades once and print KPIs, profit by instrument, max drawdown
and the daily profit distribution.

Examples:
  tradedash report
  tradedash report --data exits.csv --json
  tradedash report --source sqlite --db journal.sqlite`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var reportJSON bool

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	t, err := cfg.TradeSource().Load(cmd.Context())
	if err != nil {
		return err
	}

	r, err := analytics.Build(t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	}

	dashboard.PrintReport(out, r)
	return nil
}
