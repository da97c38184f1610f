// Package db provides pooled database/sql connectivity and migration
// support for weiser's own embedded metric-store engine, as distinct from
// internal/driver's connections to the datasources being checked.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// OpenDuckDB opens a *sql.DB pool for the given DuckDB database file.
//
// mode controls pool sizing: DuckDB allows exactly one writer connection
// at a time per database file, so "write" pins MaxOpenConns=1 the same
// way a single-writer SQLite pool would; "read" allows a wider pool for
// concurrent history lookups.
func OpenDuckDB(path string, mode string, maxOpen int) (*sql.DB, error) {
	if mode != "read" && mode != "write" {
		return nil, fmt.Errorf("invalid duckdb mode %q: must be \"read\" or \"write\"", mode)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb (%s): %w", mode, err)
	}

	switch mode {
	case "write":
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "read":
		if maxOpen <= 0 {
			maxOpen = 4
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb (%s): %w", mode, err)
	}

	return db, nil
}

// OpenDuckDBPair opens both a write pool (MaxOpenConns=1) and a read pool
// for the same DuckDB file — the recommended shape for a metric store that
// appends results from one Runner while concurrently answering history
// queries for the Anomaly Analyzer.
func OpenDuckDBPair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenDuckDB(path, "write", 0)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = OpenDuckDB(path, "read", readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}

	return writeDB, readDB, nil
}
