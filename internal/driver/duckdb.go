package driver

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

// openDuckDB opens an embedded DuckDB datasource. Unlike the embedded
// metric store (internal/metricstore), this path is read-oriented: an
// operator pointing a check at a DuckDB file or an in-memory scratch
// database, not weiser's own state.
func openDuckDB(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	path := cfg.URI
	if path == "" {
		path = cfg.DBName
	}
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errs.ErrConnection("open duckdb datasource %q: %v", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.ErrConnection("connect duckdb datasource %q: %v", cfg.Name, err)
	}
	return newSQLDriver(db, "duckdb"), nil
}
