package db

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/migrations/*.sql
var testMigrations embed.FS

func TestRunLedgerMigrations_AppliesInOrderAndRecords(t *testing.T) {
	writeDB, _ := OpenTestDuckDB(t)

	require.NoError(t, RunLedgerMigrations(writeDB, testMigrations, "testdata/migrations"))

	rows, err := writeDB.Query(`SELECT version, description FROM migrations ORDER BY version`)
	require.NoError(t, err)
	defer rows.Close()

	var versions []int64
	var descriptions []string
	for rows.Next() {
		var v int64
		var d string
		require.NoError(t, rows.Scan(&v, &d))
		versions = append(versions, v)
		descriptions = append(descriptions, d)
	}
	assert.Equal(t, []int64{1, 2}, versions)
	assert.Equal(t, []string{"create_widgets", "add_widgets_color"}, descriptions)

	var count int
	require.NoError(t, writeDB.QueryRow(`SELECT count(*) FROM widgets`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRunLedgerMigrations_IsIdempotent(t *testing.T) {
	writeDB, _ := OpenTestDuckDB(t)

	require.NoError(t, RunLedgerMigrations(writeDB, testMigrations, "testdata/migrations"))
	require.NoError(t, RunLedgerMigrations(writeDB, testMigrations, "testdata/migrations"))

	var count int
	require.NoError(t, writeDB.QueryRow(`SELECT count(*) FROM migrations`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestParseLedgerFilename(t *testing.T) {
	v, d, err := parseLedgerFilename("003_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.Equal(t, "add_index", d)

	_, _, err = parseLedgerFilename("no_version.sql")
	require.Error(t, err)
}
