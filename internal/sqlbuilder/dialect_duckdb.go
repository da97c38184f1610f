package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// duckdbDialect targets the embedded analytic engine: duckdb datasources,
// and the fallback for any datasource name missing from the configuration.
type duckdbDialect struct {
	qualify QualifyContext
}

func (d *duckdbDialect) Name() DialectName { return DialectDuckDB }

func (d *duckdbDialect) QuoteIdentifier(name string) string { return QuoteIdentifier(name) }
func (d *duckdbDialect) QuoteLiteral(value string) string   { return QuoteLiteral(value) }

func (d *duckdbDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	// DuckDB's date_trunc covers every granularity weiser supports,
	// including millennium/century/decade.
	return fmt.Sprintf("date_trunc('%s', %s)", granularity, colExpr), nil
}

func (d *duckdbDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS DOUBLE)", expr)
}

func (d *duckdbDialect) BoolLiteral(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (d *duckdbDialect) QualifyTable(table string) string {
	return d.QuoteIdentifier(table)
}
