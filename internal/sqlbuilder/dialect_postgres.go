package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// postgresDialect also serves Cube's SQL API, which speaks the Postgres
// wire protocol and accepts Postgres syntax (spec §4.2).
type postgresDialect struct {
	qualify QualifyContext
	name    DialectName // DialectCube when built for Cube; empty means PostgreSQL
}

func (d *postgresDialect) Name() DialectName {
	if d.name != "" {
		return d.name
	}
	return DialectPostgreSQL
}

func (d *postgresDialect) QuoteIdentifier(name string) string { return QuoteIdentifier(name) }
func (d *postgresDialect) QuoteLiteral(value string) string   { return QuoteLiteral(value) }

func (d *postgresDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	// Postgres' date_trunc natively covers every granularity weiser
	// supports, including millennium/century/decade.
	return fmt.Sprintf("date_trunc('%s', %s)", granularity, colExpr), nil
}

func (d *postgresDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS DOUBLE PRECISION)", expr)
}

func (d *postgresDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (d *postgresDialect) QualifyTable(table string) string {
	if d.qualify.Schema != "" {
		return d.QuoteIdentifier(d.qualify.Schema) + "." + d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(table)
}
