package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

// openPostgres opens a pooled connection to a PostgreSQL datasource, or to
// Cube's SQL API — Cube speaks the Postgres wire protocol, so the same
// driver and dialect serve both (spec §4.2).
func openPostgres(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	dsn := cfg.URI
	if dsn == "" {
		port := cfg.Port
		if port == 0 {
			port = 5432
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, port, cfg.DBName)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errs.ErrConnection("open postgresql datasource %q: %v", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.ErrConnection("connect postgresql datasource %q: %v", cfg.Name, err)
	}
	return newSQLDriver(db, "postgresql"), nil
}
