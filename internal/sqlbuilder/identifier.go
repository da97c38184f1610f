// Package sqlbuilder is the SQL Composer (spec §4.1): a pure, dialect-aware
// expression builder that turns a CheckDescriptor into one SQL statement per
// expanded leaf. It performs no I/O.
package sqlbuilder

import "github.com/weiser-io/weiser/internal/ddl"

// QuoteIdentifier wraps a SQL identifier in double quotes, escaping any
// embedded double-quote characters by doubling them. The PostgreSQL/Cube,
// Snowflake, and DuckDB dialects use it; MySQL, Databricks, and BigQuery
// quote with backticks in their own QuoteIdentifier methods. Delegates to
// internal/ddl, which implements this quoting.
func QuoteIdentifier(name string) string {
	return ddl.QuoteIdentifier(name)
}

// QuoteLiteral wraps a string value in single quotes, escaping any embedded
// single-quote characters by doubling them (standard SQL).
func QuoteLiteral(value string) string {
	return ddl.QuoteLiteral(value)
}
