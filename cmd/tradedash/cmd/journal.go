package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedash/dashboard"
	"github.com/rustyeddy/tradedash/journal"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy trades from the CSV export into the SQLite journal",
	Long: `Import reads the trade CSV and inserts every trade into the SQLite
journal, keeping file order. Each import assigns fresh trade IDs, so
importing the same file twice stores it twice. The journal can then be
used as a source with --source sqlite.

Example:
  tradedash import --data exits.csv --db journal.sqlite`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the SQLite journal back out as trades",
	Long: `Export writes every trade in the SQLite journal to --out. A path ending
in .sqlite or .db gets another SQLite journal; anything else gets a trade
CSV the dashboard can read.

Example:
  tradedash export --db journal.sqlite --out exits.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Look up trades stored in the SQLite journal",
	Long: `Query the SQLite journal written by import.

Subcommands:
  show - Print one trade by ID
  day  - Print the trades of one trading day

Examples:
  tradedash journal day 2024-01-02 --db journal.sqlite
  tradedash journal show 01HNB8Y4XK3E6N0S0T5V8W9Z2Q --db journal.sqlite`,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Print one trade by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <date>",
	Short: "Print the trades of one trading day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var exportOut string

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalDayCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "exits.csv", "output path (.csv, .sqlite or .db)")
}

func runImport(cmd *cobra.Command, args []string) error {
	src := journal.CSVSource{Path: cfg.Data.Path}
	n, err := journal.Import(cmd.Context(), src, cfg.Data.DBPath)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	j, err := journal.NewSQLite(cfg.Data.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	total, err := j.CountTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("count trades: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Imported %d trades from %s into %s\n", n, src.Path, cfg.Data.DBPath)
	fmt.Fprintf(out, "  Journal now holds %d trades\n", total)
	return nil
}

// openSink picks the journal format from the file extension.
func openSink(path string) (journal.Journal, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return journal.NewSQLite(path)
	default:
		return journal.NewCSV(path)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	t, err := journal.SQLiteSource{Path: cfg.Data.DBPath}.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}

	sink, err := openSink(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := journal.Copy(sink, t); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", t.Len(), exportOut)
	return nil
}

// openJournal opens an existing journal; it never creates one.
func openJournal() (*journal.SQLite, error) {
	if _, err := os.Stat(cfg.Data.DBPath); err != nil {
		return nil, fmt.Errorf("%w: %w", journal.ErrLoad, err)
	}
	return journal.NewSQLite(cfg.Data.DBPath)
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printTrade(cmd.OutOrStdout(), rec)
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesOnDate(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no trades on %s", args[0])
	}
	for _, rec := range recs {
		printTrade(cmd.OutOrStdout(), rec)
	}
	return nil
}

func printTrade(w io.Writer, r journal.TradeRecord) {
	fmt.Fprintf(w, "%s  %s  %-8s %-4s %12s %8s %12s\n",
		r.TradeID,
		r.Time.Format(time.RFC3339),
		r.Symbol,
		r.Type,
		dashboard.Money(r.Profit),
		r.Volume.String(),
		dashboard.Money(r.Equity),
	)
}
