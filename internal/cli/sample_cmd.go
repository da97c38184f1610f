package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weiser-io/weiser/internal/driver"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/expander"
	"github.com/weiser-io/weiser/internal/model"
)

// newSampleCmd builds `weiser sample <config> --check <name>` (spec §6):
// execute just one named declared check and print the SQL and rows of each
// of its leaves, without writing to the metric store.
func newSampleCmd(envFile *string) *cobra.Command {
	var checkName string

	cmd := &cobra.Command{
		Use:   "sample <config> --check <name>",
		Short: "Execute one named check and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkName == "" {
				return errs.ErrConfig("--check is required")
			}

			l, err := loadAndValidate(args[0], *envFile)
			if err != nil {
				return err
			}

			var target *model.CheckDescriptor
			for i := range l.checks {
				if l.checks[i].Name == checkName {
					target = &l.checks[i]
					break
				}
			}
			if target == nil {
				return errs.ErrConfig("no check named %q in %s", checkName, args[0])
			}
			if target.Type == model.CheckTypeAnomaly {
				return errs.ErrConfig("sample does not support anomaly checks: %q has no source SQL", checkName)
			}

			dialect, err := dialectFor(l.datasources, target.Datasource)
			if err != nil {
				return err
			}
			leaves, err := expander.Expand(*target, dialect)
			if err != nil {
				return err
			}

			ctx := context.Background()
			cfg, ok := l.datasources[target.Datasource]
			if !ok {
				return errs.ErrConfig("check %q references unknown datasource %q", checkName, target.Datasource)
			}
			d, err := driver.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			for _, leaf := range leaves {
				fmt.Fprintf(out, "-- %s\n%s\n", leaf.Name, leaf.SQLText)
				result, err := d.Execute(ctx, leaf.SQLText)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strings.Join(result.Columns, "\t"))
				for _, row := range result.Rows {
					cells := make([]string, len(row))
					for i, v := range row {
						cells[i] = fmt.Sprintf("%v", v)
					}
					fmt.Fprintln(out, strings.Join(cells, "\t"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&checkName, "check", "", "name of the declared check to sample")
	return cmd
}
