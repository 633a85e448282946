// Package main provides the scandesk CLI: capture page images into
// documents, manage the local library, and export documents as PDF files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scandesk/scandesk/internal/config"
	"github.com/scandesk/scandesk/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "scandesk",
	Short: "scandesk - scan, store, and export paper documents",
	Long: `scandesk keeps a local library of scanned documents: it assembles
captured page images into multi-page documents, stores them in an
on-device database, and exports them as PDF files. No server, no sync;
everything stays on this machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newScanCmd(),
		newListCmd(),
		newShowCmd(),
		newRenameCmd(),
		newLockCmd(),
		newUnlockCmd(),
		newDeleteCmd(),
		newExportCmd(),
		newPurgeCmd(),
	)
}

// loadConfig builds the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "scandesk",
	})
}

func main() {
	// Optional .env for local overrides; missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
