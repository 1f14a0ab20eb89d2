// Package cmd wires the configuration, logger and services into the
// gstledger command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/taxops/gstledger/src/config"
	"github.com/taxops/gstledger/src/logger"
)

var (
	cfg *config.AppConfig
	log *slog.Logger

	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gstledger",
	Short: "Validate GST invoices and append them to a dedup-checked ledger",
	Long: `gstledger ingests scanned GST invoices: it extracts their text, parses
and validates the tax figures, skips documents the ledger has already
recorded, and appends the rest to a spreadsheet or sqlite ledger.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// initRuntime loads configuration and builds the logger. Called by the
// commands that need them; stdout stays reserved for command output.
func initRuntime() {
	cfg = config.Load()
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	log = logger.New(cfg.LogLevel, os.Stderr)
}
