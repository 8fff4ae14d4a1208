package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/htmx-minesweeper/internal/app"
	"github.com/vancomm/htmx-minesweeper/internal/records"
)

var flagSeed uint64

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the HTTP server. The board lives in memory; finished games are
written to the configured records store.

Examples:
  minesweeper serve
  minesweeper serve --config ./config.json
  minesweeper serve --seed 42    # same mine layout on every run`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "RNG seed for mine placement (random if 0)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := records.Open(ctx, cfg.Records)
	if err != nil {
		log.WithError(err).Error("unable to open records store")
		return err
	}
	defer store.Close()

	a, err := app.New(log, cfg, store, app.NewRand(flagSeed))
	if err != nil {
		return err
	}

	if err := a.Start(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("server failed")
		return err
	}
	return nil
}
