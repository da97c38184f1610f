package driver

import (
	"context"
	"database/sql"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

func openSnowflake(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	sfCfg := &sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.DBName,
		Schema:    cfg.SchemaName,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
	}
	dsn, err := sf.DSN(sfCfg)
	if err != nil {
		return nil, errs.ErrConfig("build snowflake DSN for datasource %q: %v", cfg.Name, err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, errs.ErrConnection("open snowflake datasource %q: %v", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.ErrConnection("connect snowflake datasource %q: %v", cfg.Name, err)
	}
	return newSQLDriver(db, "snowflake"), nil
}
