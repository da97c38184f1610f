package driver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/databricks/databricks-sql-go"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

func openDatabricks(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	dsn := cfg.URI
	if dsn == "" {
		dsn = fmt.Sprintf("token:%s@%s:443%s", cfg.AccessToken, cfg.Host, cfg.HTTPPath)
		if cfg.Catalog != "" {
			dsn += fmt.Sprintf("?catalog=%s", cfg.Catalog)
		}
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, errs.ErrConnection("open databricks datasource %q: %v", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.ErrConnection("connect databricks datasource %q: %v", cfg.Name, err)
	}
	return newSQLDriver(db, "databricks"), nil
}
