package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// RunLedgerMigrations applies every *.sql file under dir in name order that
// hasn't already been recorded in the migrations ledger table. DuckDB has
// no goose dialect support, so the embedded metric store tracks applied
// migrations itself in a table shaped like goose's own version table
// (version, description, applied_at) rather than pulling in a second
// migration framework for one backend.
func RunLedgerMigrations(sqlDB *sql.DB, migrations embed.FS, dir string) error {
	if _, err := sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version     BIGINT PRIMARY KEY,
			description VARCHAR NOT NULL,
			applied_at  TIMESTAMP NOT NULL DEFAULT current_timestamp
		)
	`); err != nil {
		return fmt.Errorf("create migrations ledger: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := sqlDB.Query(`SELECT version FROM migrations`)
	if err != nil {
		return fmt.Errorf("read migrations ledger: %w", err)
	}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan migrations ledger: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate migrations ledger: %w", err)
	}
	rows.Close()

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, description, err := parseLedgerFilename(entry.Name())
		if err != nil {
			return fmt.Errorf("migration %q: %w", entry.Name(), err)
		}
		if applied[version] {
			continue
		}

		contents, err := fs.ReadFile(migrations, dir+"/"+entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %q: %w", entry.Name(), err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %q: %w", entry.Name(), err)
		}
		if _, err := tx.Exec(string(contents)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %q: %w", entry.Name(), err)
		}
		if _, err := tx.Exec(`INSERT INTO migrations (version, description) VALUES (?, ?)`, version, description); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %q: %w", entry.Name(), err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %q: %w", entry.Name(), err)
		}
	}

	return nil
}

// parseLedgerFilename extracts the version and description from a
// "NNN_description.sql" migration filename, goose's own naming convention.
func parseLedgerFilename(name string) (version int64, description string, err error) {
	base := strings.TrimSuffix(name, ".sql")
	idx := strings.Index(base, "_")
	if idx < 0 {
		return 0, "", fmt.Errorf("expected NNN_description.sql, got %q", name)
	}
	var v int64
	if _, scanErr := fmt.Sscanf(base[:idx], "%d", &v); scanErr != nil {
		return 0, "", fmt.Errorf("expected numeric version prefix, got %q", name)
	}
	return v, base[idx+1:], nil
}
