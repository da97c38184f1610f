package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/expander"
	"github.com/weiser-io/weiser/internal/runner"
	"github.com/weiser-io/weiser/internal/sqlbuilder"
)

// newCompileCmd builds `weiser compile <config>` (spec §6): parse, expand,
// and print each leaf's SQL without executing; exits non-zero on compile
// failure.
func newCompileCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <config>",
		Short: "Expand and print every leaf's SQL without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadAndValidate(args[0], *envFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, desc := range l.checks {
				dialect, err := dialectFor(l.datasources, desc.Datasource)
				if err != nil {
					return err
				}
				leaves, err := expander.Expand(desc, dialect)
				if err != nil {
					return fmt.Errorf("check %q: %w", desc.Name, err)
				}
				for _, leaf := range leaves {
					fmt.Fprintf(out, "-- %s (check_id=%s)\n", leaf.Name, leaf.CheckID)
					if leaf.SQLText == "" {
						fmt.Fprintln(out, "-- (anomaly check: no source SQL, computed from metric-store history)")
					} else {
						fmt.Fprintln(out, leaf.SQLText+";")
					}
				}
			}
			return nil
		},
	}
	return cmd
}

// dialectFor resolves the sqlbuilder.Dialect for a named datasource,
// falling back to the embedded engine's dialect for any datasource name not
// found in the map, such as the implicit "default" (mirroring
// internal/runner's own resolution, since compile never opens a
// connection).
func dialectFor(datasources map[string]configload.DatasourceConfig, name string) (sqlbuilder.Dialect, error) {
	cfg, ok := datasources[name]
	if !ok {
		return sqlbuilder.ForName(sqlbuilder.DialectDuckDB, sqlbuilder.QualifyContext{})
	}
	dialectName, qualify := runner.DialectForDatasource(cfg)
	return sqlbuilder.ForName(dialectName, qualify)
}
