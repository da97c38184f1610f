package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

// DialectName tags one of the six supported SQL dialects (spec §4.2).
type DialectName string

const (
	DialectPostgreSQL DialectName = "postgresql"
	DialectCube       DialectName = "cube" // Cube's SQL API speaks the Postgres wire protocol and dialect
	DialectMySQL      DialectName = "mysql"
	DialectSnowflake  DialectName = "snowflake"
	DialectDatabricks DialectName = "databricks"
	DialectBigQuery   DialectName = "bigquery"
	DialectDuckDB     DialectName = "duckdb"
)

// Dialect encapsulates everything that differs between SQL backends:
// identifier quoting, boolean literals, ratio casts, and date_trunc
// equivalents. The Composer never branches on dialect name directly — it
// always goes through this interface (spec §4.1's "Dialect-specific
// concerns the Composer must encapsulate").
type Dialect interface {
	Name() DialectName
	QuoteIdentifier(name string) string
	QuoteLiteral(value string) string
	// DateTrunc returns a SQL expression that truncates the timestamp
	// column colExpr to the given granularity.
	DateTrunc(colExpr string, granularity model.Granularity) (string, error)
	// CastDouble returns a SQL expression casting expr to a double/float
	// type, used by not_empty_pct's ratio calculation.
	CastDouble(expr string) string
	// BoolLiteral renders a boolean literal for dialects without a native
	// boolean type (MySQL materializes booleans as TINYINT).
	BoolLiteral(v bool) string
	// QualifyTable renders a (possibly catalog/schema-qualified) table
	// reference from a bare table name. MySQL and DuckDB pass the name
	// through unqualified; BigQuery prepends project/dataset, Databricks
	// the catalog, and PostgreSQL/Snowflake the schema, when configured.
	QualifyTable(table string) string
}

// ForName returns the Dialect implementation for name, constructed with the
// given qualification context (catalog/schema/project — whichever fields
// the dialect cares about; others are ignored).
func ForName(name DialectName, qualify QualifyContext) (Dialect, error) {
	switch name {
	case DialectPostgreSQL:
		return &postgresDialect{qualify: qualify}, nil
	case DialectCube:
		return &postgresDialect{qualify: qualify, name: DialectCube}, nil
	case DialectMySQL:
		return &mysqlDialect{qualify: qualify}, nil
	case DialectSnowflake:
		return &snowflakeDialect{qualify: qualify}, nil
	case DialectDatabricks:
		return &databricksDialect{qualify: qualify}, nil
	case DialectBigQuery:
		return &bigqueryDialect{qualify: qualify}, nil
	case DialectDuckDB:
		return &duckdbDialect{qualify: qualify}, nil
	default:
		return nil, errs.ErrConfig("unknown dialect %q", name)
	}
}

// QualifyContext carries the optional catalog/schema/project/dataset
// qualifiers a dialect may prepend to a bare table name.
type QualifyContext struct {
	Catalog string // Databricks catalog
	Schema  string // Snowflake schema_name
	Project string // BigQuery project_id
	Dataset string // BigQuery dataset_id
}

// unsupportedGranularity is the error the dialects with an explicit
// granularity switch (MySQL, Snowflake, Databricks, BigQuery) return for a
// granularity outside the supported set. Decade/century/millennium are not
// errors there; they are computed with yearFloorExpr.
func unsupportedGranularity(dialect DialectName, g model.Granularity) error {
	return fmt.Errorf("dialect %q does not support time_dimension granularity %q", dialect, g)
}

// yearFloorExpr returns a SQL expression for "year truncated down to the
// nearest multiple of n", used by the decade/century/millennium fallback
// computed from EXTRACT(YEAR FROM ...).
func yearFloorExpr(extractYearExpr string, n int) string {
	return fmt.Sprintf("CAST(FLOOR(%s / %d) * %d AS INTEGER)", extractYearExpr, n, n)
}
