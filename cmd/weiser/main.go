// Command weiser runs the declarative data-quality engine: compile checks
// to SQL, execute them against configured data sources, and record every
// outcome to the metric store (spec §6).
package main

import (
	"os"

	"github.com/weiser-io/weiser/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
