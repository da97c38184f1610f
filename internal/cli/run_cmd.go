package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weiser-io/weiser/internal/runner"
)

// newRunCmd builds `weiser run <config>` (spec §6): execute every declared
// check and exit 0 only if every recorded leaf succeeded. The -v/--verbose
// flag is inherited from the root command's persistent flags.
func newRunCmd(envFile *string) *cobra.Command {
	var disableMirror bool

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Execute all checks and record outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verboseFlag, _ := cmd.Flags().GetBool("verbose")
			logger := runtimeLogger(verboseFlag)

			l, err := loadAndValidate(args[0], *envFile)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			store, err := openMetricStore(ctx, l.doc, disableMirror)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Initialize(ctx); err != nil {
				return err
			}

			r := runner.New(logger, store, l.datasources)
			defer r.Close()

			summary, err := r.Run(ctx, l.checks)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d checks, %d passed, %d failed (%d errored)\n",
				summary.RunID, summary.Total, summary.Passed, summary.Failed, summary.Errored)
			for _, le := range summary.LeafErrors {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %v\n", le.CheckName, le.Err)
			}

			if summary.Failed > 0 {
				return errExitNonZero
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&disableMirror, "disable-mirror", "s", false, "disable mirroring the embedded metric store to object storage")

	return cmd
}

// errExitNonZero signals a failed run (not a bug) — cobra's SilenceErrors
// keeps Execute from printing its text, while Execute still returns exit
// code 1.
var errExitNonZero = errExit{}

type errExit struct{}

func (errExit) Error() string { return "" }
