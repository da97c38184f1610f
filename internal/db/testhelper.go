package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestDuckDB opens a hardened DuckDB write/read pool pair backed by a
// file in t.TempDir(), with cleanup registered. Callers that need a schema
// run their own RunLedgerMigrations against writeDB.
func OpenTestDuckDB(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.duckdb")

	writeDB, readDB, err := OpenDuckDBPair(path, 4)
	if err != nil {
		t.Fatalf("open test duckdb: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	return writeDB, readDB
}
