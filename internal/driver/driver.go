// Package driver opens and queries the SQL data sources operators declare
// in their datasource configuration: the counterpart of internal/db for
// weiser's own metric store, but reaching outward to the warehouses being
// checked rather than inward to weiser's own state.
package driver

import "context"

// QueryResult is the dialect-agnostic shape every driver returns: column
// names in select order, and rows as parallel slices of Go values already
// normalized by the database/sql (or client-library) scanner.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}

// Scalar returns the single value of a single-row, single-column result,
// the shape every non-grouped check composes (spec §4.1). It reports false
// if the result isn't exactly one row and one column.
func (r *QueryResult) Scalar() (any, bool) {
	if len(r.Rows) != 1 || len(r.Columns) != 1 {
		return nil, false
	}
	return r.Rows[0][0], true
}

// Driver executes compiled SQL against one configured datasource. Drivers
// are safe for concurrent use by multiple goroutines (the Runner fans out
// per source with a bounded worker pool).
type Driver interface {
	// Execute runs sqlText and returns its result set.
	Execute(ctx context.Context, sqlText string) (*QueryResult, error)
	// Close releases the underlying connection pool or client.
	Close() error
}
