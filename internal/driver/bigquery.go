package driver

import (
	"context"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
)

// bigqueryDriver talks to BigQuery's own client library rather than a
// database/sql driver — the ecosystem has no database/sql BigQuery driver,
// so this is the one Driver implementation that doesn't embed sqlDriver.
type bigqueryDriver struct {
	client *bigquery.Client
}

func openBigQuery(ctx context.Context, cfg configload.DatasourceConfig) (Driver, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, errs.ErrConnection("open bigquery datasource %q: %v", cfg.Name, err)
	}
	if cfg.Location != "" {
		client.Location = cfg.Location
	}
	return &bigqueryDriver{client: client}, nil
}

func (d *bigqueryDriver) Execute(ctx context.Context, sqlText string) (*QueryResult, error) {
	it, err := d.client.Query(sqlText).Read(ctx)
	if err != nil {
		return nil, errs.ErrQuery(sqlText, "bigquery query failed: %v", err)
	}

	result := &QueryResult{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.ErrQuery(sqlText, "bigquery result scan failed: %v", err)
		}
		if result.Columns == nil {
			for _, field := range it.Schema {
				result.Columns = append(result.Columns, field.Name)
			}
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		result.Rows = append(result.Rows, values)
	}
	return result, nil
}

func (d *bigqueryDriver) Close() error {
	return d.client.Close()
}
