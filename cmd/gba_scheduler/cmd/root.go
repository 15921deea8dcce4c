// Package cmd provides CLI commands for the recurring-invoice scheduler.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gba-scheduler",
	Short: "Generate invoices from due recurring templates",
	Long: `gba-scheduler runs the recurring-invoice generation pass against the
billing database. It is intended to be invoked from cron or a container
scheduler; each run is safe to repeat and safe to run concurrently, because
due templates are claimed with row locks.

Example:
  gba-scheduler run
  gba-scheduler run --at 2024-02-29`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(runCmd)
}
