package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradedash/config"
	"github.com/rustyeddy/tradedash/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tradedash",
	Short: "Performance analytics for Expert Advisor trade exports",
	Long: `Tradedash reads the closed trades an MT5 Expert Advisor exported to CSV
and reports on them.

It provides:
  - A web dashboard with KPI metrics, equity curve, profit by instrument
    and daily profit distribution
  - A plain-text report for the terminal
  - A SQLite trade journal that CSV exports can be imported into

The trade file must carry the columns Time, Symbol, Type, Profit, Volume,
Equity and Date. Extra columns are ignored.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile   string
	envFile   string
	dataPath  string
	dataSrc   string
	dbPath    string
	logLevel  string
	logFormat string

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with TRADEDASH_* overrides")
	pf.StringVar(&dataPath, "data", "", "trade CSV path (default "+config.Default().Data.Path+")")
	pf.StringVar(&dataSrc, "source", "", "trade source: csv or sqlite")
	pf.StringVar(&dbPath, "db", "", "SQLite journal path")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: json or console")
}

// loadConfig resolves settings: defaults, then config file, then
// environment, then flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("env file: %w", err)
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("data", &c.Data.Path, dataPath)
	override("source", &c.Data.Source, dataSrc)
	override("db", &c.Data.DBPath, dbPath)
	override("log-level", &c.Log.Level, logLevel)
	override("log-format", &c.Log.Format, logFormat)

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

func newLogger() (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}
