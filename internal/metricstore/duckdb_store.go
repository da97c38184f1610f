package metricstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/weiser-io/weiser/internal/db"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

//go:embed migrations_embedded/*.sql
var embeddedMigrations embed.FS

// DuckDBStore is the embedded metric store backend: a DuckDB file with a
// single-writer pool and, optionally, a mirror of that file to S3 on
// Close (spec §4.3's "file-backed, optionally mirrored to object storage
// on shutdown").
type DuckDBStore struct {
	path    string
	writeDB *sql.DB
	readDB  *sql.DB
	mirror  *s3Mirror
}

// OpenDuckDBStore opens (creating if necessary) the DuckDB file at path.
// If mirror is non-nil, Close uploads the file to S3 afterward.
func OpenDuckDBStore(path string, mirror *s3Mirror) (*DuckDBStore, error) {
	writeDB, readDB, err := db.OpenDuckDBPair(path, 4)
	if err != nil {
		return nil, errs.ErrConnection("open embedded metric store %q: %v", path, err)
	}
	return &DuckDBStore{path: path, writeDB: writeDB, readDB: readDB, mirror: mirror}, nil
}

func (s *DuckDBStore) Initialize(ctx context.Context) error {
	if err := db.RunLedgerMigrations(s.writeDB, embeddedMigrations, "migrations_embedded"); err != nil {
		return errs.ErrConnection("initialize embedded metric store: %v", err)
	}
	return nil
}

func (s *DuckDBStore) Write(ctx context.Context, record model.MetricRecord) error {
	values, err := writeColumns(record)
	if err != nil {
		return errs.ErrQuery("", "encode metric record: %v", err)
	}

	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	stmt := fmt.Sprintf(`INSERT INTO metrics (%s) VALUES (%s)`, insertColumnList, placeholders)
	if _, err := s.writeDB.ExecContext(ctx, stmt, values...); err != nil {
		return errs.ErrQuery(stmt, "write metric record: %v", err)
	}
	return nil
}

func (s *DuckDBStore) History(ctx context.Context, filter HistoryFilter) ([]float64, error) {
	query, args := historyQuery(filter)
	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.ErrQuery(query, "query metric history: %v", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, errs.ErrQuery(query, "scan metric history row: %v", err)
		}
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrQuery(query, "iterate metric history: %v", err)
	}
	return out, nil
}

func (s *DuckDBStore) LastValue(ctx context.Context, checkID string) (float64, bool, error) {
	return lastValueFromHistory(ctx, s, checkID)
}

func (s *DuckDBStore) Close() error {
	readErr := s.readDB.Close()
	writeErr := s.writeDB.Close()
	if writeErr != nil {
		return writeErr
	}
	if readErr != nil {
		return readErr
	}
	if s.mirror != nil {
		return s.mirror.Upload(context.Background(), s.path)
	}
	return nil
}

// historyQuery builds the SELECT used by the embedded backend's History.
func historyQuery(filter HistoryFilter) (string, []any) {
	where, args := historyWhere(filter, "?")
	query := fmt.Sprintf(`SELECT actual_value FROM metrics WHERE %s ORDER BY run_time ASC`, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query, args
}

// lastValueFromHistory is shared by both backends: the newest observation
// is the last element of History's ascending series.
func lastValueFromHistory(ctx context.Context, store Store, checkID string) (float64, bool, error) {
	history, err := store.History(ctx, HistoryFilter{CheckID: checkID})
	if err != nil {
		return 0, false, err
	}
	if len(history) == 0 {
		return 0, false, nil
	}
	return history[len(history)-1], true, nil
}
