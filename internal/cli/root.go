package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weiser-io/weiser/internal/config"
)

// Execute runs the CLI and returns the process exit code (spec §6's CLI
// surface), mirroring the teacher's own Execute() int + SilenceUsage/
// SilenceErrors shape so weiser prints one clean error line instead of a
// cobra usage dump on failure.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if err.Error() != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		envFile string
	)

	rootCmd := &cobra.Command{
		Use:           "weiser",
		Short:         "Declarative data-quality checks",
		Long:          "weiser compiles declarative checks into SQL, runs them against your data sources, and records every outcome for historical and anomaly analysis.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log composed SQL and per-leaf detail")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", "", "path to a .env file used for template expansion")

	rootCmd.AddCommand(newRunCmd(&envFile))
	rootCmd.AddCommand(newCompileCmd(&envFile))
	rootCmd.AddCommand(newSampleCmd(&envFile))

	return rootCmd
}

// runtimeLogger builds the process-wide slog.Logger from WEISER_* env vars
// (internal/config), bumping to debug when -v/--verbose was passed.
func runtimeLogger(verbose bool) *slog.Logger {
	cfg := config.LoadFromEnv()
	if verbose {
		cfg.LogLevel = "debug"
	}
	logger := config.NewLogger(cfg, os.Stderr)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return logger
}
