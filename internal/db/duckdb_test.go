package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDuckDB_InvalidMode(t *testing.T) {
	_, err := OpenDuckDB(filepath.Join(t.TempDir(), "test.duckdb"), "invalid", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duckdb mode")
}

func TestOpenDuckDBPair_WriteIsSingleConn(t *testing.T) {
	writeDB, readDB := OpenTestDuckDB(t)
	assert.NotNil(t, writeDB)
	assert.NotNil(t, readDB)
	assert.Equal(t, 1, writeDB.Stats().MaxOpenConnections)
}
