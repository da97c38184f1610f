package metricstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

//go:embed migrations_postgres/*.sql
var postgresMigrations embed.FS

// PostgresStore is the relational metric store backend, migrated with
// goose exactly as the teacher migrates its own metastore — dialect
// switched from sqlite3 to postgres (spec §4.3, §9).
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore opens a pooled connection to dsn (a postgres:// URI).
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errs.ErrConnection("open relational metric store: %v", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize(ctx context.Context) error {
	goose.SetBaseFS(postgresMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errs.ErrConnection("goose set dialect: %v", err)
	}
	if err := goose.Up(s.db, "migrations_postgres"); err != nil {
		return errs.ErrConnection("initialize relational metric store: %v", err)
	}
	return nil
}

func (s *PostgresStore) Write(ctx context.Context, record model.MetricRecord) error {
	values, err := writeColumns(record)
	if err != nil {
		return errs.ErrQuery("", "encode metric record: %v", err)
	}

	placeholders := make([]string, len(values))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf(`INSERT INTO metrics (%s) VALUES (%s)`, insertColumnList, joinPlaceholders(placeholders))
	if _, err := s.db.ExecContext(ctx, stmt, values...); err != nil {
		return errs.ErrQuery(stmt, "write metric record: %v", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, filter HistoryFilter) ([]float64, error) {
	where, args := historyWhere(filter, "$1")

	query := fmt.Sprintf(`SELECT actual_value FROM metrics WHERE %s ORDER BY run_time ASC`, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *PostgresStore) LastValue(ctx context.Context, checkID string) (float64, bool, error) {
	return lastValueFromHistory(ctx, s, checkID)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func joinPlaceholders(ps []string) string {
	out := ps[0]
	for _, p := range ps[1:] {
		out += ", " + p
	}
	return out
}
