package driver

import (
	"context"
	"database/sql"

	"github.com/weiser-io/weiser/internal/errs"
)

// sqlDriver adapts a database/sql pool to the Driver interface. It backs
// every dialect except BigQuery, which has no database/sql driver in the
// ecosystem and talks to its own client library instead (bigquery.go).
type sqlDriver struct {
	db      *sql.DB
	dialect string // for error messages only
}

func newSQLDriver(db *sql.DB, dialect string) *sqlDriver {
	return &sqlDriver{db: db, dialect: dialect}
}

func (d *sqlDriver) Execute(ctx context.Context, sqlText string) (*QueryResult, error) {
	rows, err := d.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errs.ErrQuery(sqlText, "%s query failed: %v", d.dialect, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, errs.ErrQuery(sqlText, "%s result scan failed: %v", d.dialect, err)
	}
	return result, nil
}

func (d *sqlDriver) Close() error {
	return d.db.Close()
}

// scanRows drains a *sql.Rows into a QueryResult, normalizing []byte values
// (how database/sql surfaces TEXT/VARCHAR columns for several drivers,
// notably MySQL) into strings so downstream code never type-switches on
// []byte.
func scanRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range raw {
			if b, ok := v.([]byte); ok {
				raw[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
