package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradedash/journal"
	"github.com/rustyeddy/tradedash/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics dashboard over HTTP",
	Long: `Serve the dashboard. Trades are loaded once and shared by every viewer;
they are read again only on POST /api/v1/reload or on the configured
reload schedule.

Endpoints:
  /                   dashboard page
  /charts/{name}      equity, symbols, daily
  /api/v1/summary     report as JSON
  /api/v1/reload      reload trades (POST)
  /health, /metrics

Example:
  tradedash serve --data data/processed/exits_processed.csv --addr :8501`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr   string
	serveReload string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8501)")
	serveCmd.Flags().StringVar(&serveReload, "reload", "", `reload schedule, e.g. "@every 5m"`)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("reload") {
		cfg.Data.ReloadSchedule = serveReload
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(journal.NewCache(cfg.TradeSource()), log)
	if cfg.Data.ReloadSchedule != "" {
		if err := srv.ScheduleReload(cfg.Data.ReloadSchedule); err != nil {
			return err
		}
	}

	// A bad file is reported on the page, so the server still starts.
	if err := srv.Warm(ctx); err != nil {
		log.Warn("initial load failed", zap.Error(err))
	}

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
