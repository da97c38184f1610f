package driver

import (
	"context"
	"strings"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

// Open opens a Driver for the given datasource configuration, dispatching
// on its declared type (spec §4.2). The returned Driver owns its
// connection pool/client and must be closed by the caller.
func Open(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	switch strings.ToLower(cfg.Type) {
	case "postgresql", "postgres", "cube":
		return openPostgres(ctx, cfg)
	case "mysql":
		return openMySQL(ctx, cfg)
	case "snowflake":
		return openSnowflake(ctx, cfg)
	case "databricks":
		return openDatabricks(ctx, cfg)
	case "bigquery":
		return openBigQuery(ctx, cfg)
	case "duckdb":
		return openDuckDB(ctx, cfg)
	default:
		return nil, errs.ErrConfig("unsupported datasource type %q for datasource %q", cfg.Type, cfg.Name)
	}
}
