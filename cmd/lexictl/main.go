package main

import (
	"fmt"
	"os"

	"lexi-drafting-be/internal/config"
	"lexi-drafting-be/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	verbose bool

	cfg *config.Config
	log *logger.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:   "lexictl",
	Short: "lexictl - offline tooling for the lexi drafting backend",
	Long: `lexictl runs the pieces of the drafting backend that do not need the
HTTP server: schema migration, template extraction from a local file and
chunk inspection.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if verbose {
			log = logger.NewZapLogger(cfg.App.LogFilePath, false)
		} else {
			log = logger.NewNopLogger()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write structured logs")

	rootCmd.AddCommand(migrateCmd, extractCmd, chunksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
