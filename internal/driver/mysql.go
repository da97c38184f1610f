package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

func openMySQL(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	dsn := cfg.URI
	if dsn == "" {
		port := cfg.Port
		if port == 0 {
			port = 3306
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, port, cfg.DBName)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errs.ErrConnection("open mysql datasource %q: %v", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.ErrConnection("connect mysql datasource %q: %v", cfg.Name, err)
	}
	return newSQLDriver(db, "mysql"), nil
}
