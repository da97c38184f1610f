// Package cli is the thin command-line wrapper around the engine (spec
// §6): three verbs — run, compile, sample — that load a configuration
// document and drive internal/runner, internal/expander, and
// internal/metricstore. It owns no engine logic of its own.
package cli

import (
	"context"
	"fmt"

	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/metricstore"
	"github.com/weiser-io/weiser/internal/model"
)

// loaded bundles everything a subcommand needs once a configuration
// document has parsed and validated cleanly.
type loaded struct {
	doc         *configload.Document
	checks      []model.CheckDescriptor
	datasources map[string]configload.DatasourceConfig
}

// loadAndValidate reads path, expands templates/includes, converts every
// declared check to a model.CheckDescriptor, and runs the load-time
// validations (spec §7's ConfigError: "the run aborts before any query").
func loadAndValidate(path, envFile string) (*loaded, error) {
	doc, err := configload.Load(path, configload.LoadOptions{EnvFilePath: envFile})
	if err != nil {
		return nil, err
	}

	checks, err := configload.ToCheckDescriptors(doc)
	if err != nil {
		return nil, err
	}

	datasources := make(map[string]configload.DatasourceConfig, len(doc.Datasources))
	for _, ds := range doc.Datasources {
		datasources[ds.Name] = ds
	}

	hasStore := false
	for _, c := range doc.Connections {
		if c.Type == "metricstore" {
			hasStore = true
			break
		}
	}

	if errsFound := configload.Validate(checks, datasources, hasStore); len(errsFound) > 0 {
		return nil, joinErrors(errsFound)
	}

	return &loaded{doc: doc, checks: checks, datasources: datasources}, nil
}

func joinErrors(errsIn []error) error {
	msg := fmt.Sprintf("%d configuration error(s):", len(errsIn))
	for _, e := range errsIn {
		msg += "\n  - " + e.Error()
	}
	return errs.ErrConfig(msg)
}

// openMetricStore opens the configuration's declared metric-store
// connection, honoring disableMirror for the embedded backend's optional
// S3 mirror (the -s/--disable-mirror CLI flag, spec §6).
func openMetricStore(ctx context.Context, doc *configload.Document, disableMirror bool) (metricstore.Store, error) {
	var conn *configload.ConnectionConfig
	for i := range doc.Connections {
		if doc.Connections[i].Type == "metricstore" {
			conn = &doc.Connections[i]
			break
		}
	}
	if conn == nil {
		return nil, errs.ErrConfig("configuration must declare at least one connection of type metricstore")
	}

	switch conn.DBType {
	case "duckdb":
		path := conn.Path
		if path == "" {
			path = "weiser_metrics.duckdb"
		}

		if !disableMirror && conn.HasS3Mirror() {
			mirror, err := metricstore.NewS3Mirror(ctx, metricstore.S3MirrorConfig{
				AccessKey:       conn.S3AccessKey,
				SecretAccessKey: conn.S3SecretAccessKey,
				Endpoint:        conn.S3Endpoint,
				Region:          conn.S3Region,
				Bucket:          conn.S3Bucket,
				URLStyle:        conn.S3URLStyle,
			})
			if err != nil {
				return nil, err
			}
			return metricstore.OpenDuckDBStore(path, mirror)
		}
		return metricstore.OpenDuckDBStore(path, nil)

	case "postgresql", "postgres":
		dsn := conn.URI
		if dsn == "" {
			port := conn.Port
			if port == 0 {
				port = 5432
			}
			dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s", conn.User, conn.Password, conn.Host, port, conn.DBName)
		}
		return metricstore.OpenPostgresStore(dsn)

	default:
		return nil, errs.ErrConfig("unsupported metric store db_type %q", conn.DBType)
	}
}
