// minesweeper serves one Minesweeper board shared by every connected viewer.
//
// Usage:
//
//	minesweeper serve      - Start the web server
//	minesweeper records    - Print the most recent finished games
//
// Global flags:
//
//	--config <path>  - JSON config file layered over the defaults
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/htmx-minesweeper/internal/config"
	"github.com/vancomm/htmx-minesweeper/internal/logging"
)

var flagConfigPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Live shared Minesweeper board",
	Long: `minesweeper hosts a single Minesweeper game in the browser. Every
viewer sees the same board and every move is pushed to all of them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)
}

func setup() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Read(flagConfigPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("unable to read config: %w", err)
	}
	log, err := logging.New(cfg)
	if err != nil {
		return cfg, nil, err
	}
	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")
	return cfg, log, nil
}
