// Package runner orchestrates a full invocation: for every declared check
// it expands leaves, composes SQL, executes against the named source (or
// analyzes history for anomaly checks), evaluates the condition, and
// writes every outcome to the Metric Store (spec §4.7, §5).
package runner

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/weiser-io/weiser/internal/anomaly"
	"github.com/weiser-io/weiser/internal/configload"
	"github.com/weiser-io/weiser/internal/driver"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/evaluator"
	"github.com/weiser-io/weiser/internal/expander"
	"github.com/weiser-io/weiser/internal/metricstore"
	"github.com/weiser-io/weiser/internal/model"
	"github.com/weiser-io/weiser/internal/sqlbuilder"
)

// defaultPerSourceConcurrency bounds how many leaves run concurrently
// against any one datasource, standing in for "the driver's pool size"
// (spec §4.7); every datasource gets this same bound.
const defaultPerSourceConcurrency = 4

// Runner owns expansion, scheduling, and record assembly for one
// invocation (spec §3's Ownership). Source drivers own their own
// connection pools; the Runner only opens and caches one per datasource
// name for the lifetime of a single Run call.
type Runner struct {
	logger  *slog.Logger
	store   metricstore.Store
	sources map[string]configload.DatasourceConfig

	perSourceConcurrency int

	// openDriver defaults to driver.Open; tests substitute a stub so
	// Runner's scheduling and record-assembly logic can be exercised
	// without a real network connection.
	openDriver func(ctx context.Context, cfg configload.DatasourceConfig) (driver.Driver, error)

	mu      sync.Mutex
	drivers map[string]driver.Driver
	dialErr map[string]error
}

// New constructs a Runner against the given metric store and datasource
// configuration map (keyed by DatasourceConfig.Name).
func New(logger *slog.Logger, store metricstore.Store, sources map[string]configload.DatasourceConfig) *Runner {
	return &Runner{
		logger:               logger,
		store:                store,
		sources:              sources,
		perSourceConcurrency: defaultPerSourceConcurrency,
		openDriver:           driver.Open,
		drivers:              map[string]driver.Driver{},
		dialErr:              map[string]error{},
	}
}

// Summary aggregates one invocation's outcome (spec §7's "Runner returns
// a summary with counts of pass/fail/error").
type Summary struct {
	RunID      string
	Total      int
	Passed     int
	Failed     int
	Errored    int // failed leaves whose failure was an error, not a legitimate measurement
	LeafErrors []LeafError
}

// LeafError annotates one leaf's failure for the run summary's diagnostics.
type LeafError struct {
	CheckName string
	CheckID   string
	Err       error
}

// dispatchUnit pairs a declared check with one of its expanded leaves, so
// dispatch order (declaration order, then expansion order — spec §4.4,
// §5) can be fixed before any goroutine starts.
type dispatchUnit struct {
	desc model.CheckDescriptor
	leaf model.LeafCheck
}

// Run expands every check in checks, executes its leaves with bounded
// per-source concurrency, evaluates each result, and writes every
// outcome — pass or fail — to the Metric Store. It returns once every
// leaf has been recorded (spec §5's "synchronous to its caller").
//
// Run returns a non-nil error only when a metric-store Write fails with a
// *errs.ConnectionError; the remaining leaves still run, and that error is
// returned after all of them have finished. The DuckDB and PostgreSQL
// stores report every write failure as a *errs.QueryError, which is logged
// and does not make Run return an error. Per-leaf CompileError/
// ConnectionError/QueryError are isolated, recorded as failures, and do not
// stop other leaves (spec §7).
func (r *Runner) Run(ctx context.Context, checks []model.CheckDescriptor) (*Summary, error) {
	runID := uuid.NewString()
	summary := &Summary{RunID: runID}

	units, compileErrors := r.expandAll(checks)
	for _, ce := range compileErrors {
		summary.Total++
		summary.Failed++
		summary.Errored++
		summary.LeafErrors = append(summary.LeafErrors, ce)
	}

	sems := r.semaphoresFor(units)

	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	fatal := error(nil)

	for _, u := range units {
		u := u
		sem := sems[u.desc.Datasource]
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			defer func() { <-sem }()

			records := r.executeUnit(gctx, runID, u)

			mu.Lock()
			defer mu.Unlock()
			for _, rec := range records {
				r.logger.Debug("leaf evaluated", "check_id", rec.CheckID, "run_id", runID, "name", rec.Name, "success", rec.Success, "sql", u.leaf.SQLText)
				summary.Total++
				if rec.Success {
					summary.Passed++
				} else {
					summary.Failed++
					if rec.ErrorMessage != "" {
						summary.Errored++
						summary.LeafErrors = append(summary.LeafErrors, LeafError{
							CheckName: rec.Name,
							CheckID:   rec.CheckID,
							Err:       errs.ErrQuery("", "%s", rec.ErrorMessage),
						})
					}
				}
				if err := r.store.Write(gctx, rec); err != nil {
					if _, ok := err.(*errs.ConnectionError); ok && fatal == nil {
						fatal = err
					}
					r.logger.Error("write metric record failed", "check_id", rec.CheckID, "error", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if fatal != nil {
		return summary, fatal
	}
	return summary, nil
}

// semaphoresFor builds one bounded channel per distinct datasource
// referenced by units, so leaves against different sources never contend
// for the same slot (spec §4.7: "Concurrency is bounded per source").
func (r *Runner) semaphoresFor(units []dispatchUnit) map[string]chan struct{} {
	sems := map[string]chan struct{}{}
	for _, u := range units {
		if _, ok := sems[u.desc.Datasource]; !ok {
			sems[u.desc.Datasource] = make(chan struct{}, r.perSourceConcurrency)
		}
	}
	return sems
}

// expandAll expands every check into dispatch units in declaration order,
// then expansion order, isolating CompileErrors per declared check so one
// malformed descriptor doesn't block the rest (spec §7's CompileError
// propagation policy).
func (r *Runner) expandAll(checks []model.CheckDescriptor) ([]dispatchUnit, []LeafError) {
	var units []dispatchUnit
	var errsOut []LeafError

	for _, desc := range checks {
		dialect, err := r.dialectFor(desc.Datasource)
		if err != nil {
			errsOut = append(errsOut, LeafError{CheckName: desc.Name, Err: err})
			continue
		}
		leaves, err := expander.Expand(desc, dialect)
		if err != nil {
			errsOut = append(errsOut, LeafError{CheckName: desc.Name, Err: err})
			continue
		}
		for _, leaf := range leaves {
			units = append(units, dispatchUnit{desc: desc, leaf: leaf})
		}
	}
	return units, errsOut
}

// dialectFor resolves the sqlbuilder.Dialect for a datasource name. A name
// missing from the configuration (such as the implicit "default" an
// anomaly check usually carries) falls back to the embedded DuckDB
// dialect. Anomaly leaves are composed without SQL, so the dialect chosen
// for them has no effect.
func (r *Runner) dialectFor(datasourceName string) (sqlbuilder.Dialect, error) {
	cfg, ok := r.sources[datasourceName]
	if !ok {
		return sqlbuilder.ForName(sqlbuilder.DialectDuckDB, sqlbuilder.QualifyContext{})
	}
	name, qualify := DialectForDatasource(cfg)
	return sqlbuilder.ForName(name, qualify)
}

// DialectForDatasource maps a datasource's declared type to the
// sqlbuilder dialect and qualification context that serializes SQL for it
// (spec §4.2's dialect variants, §4.1's "catalog/schema-qualified table"
// concern). Exported so internal/cli's compile/sample subcommands resolve
// the same dialect the Runner would, without executing anything.
func DialectForDatasource(cfg configload.DatasourceConfig) (sqlbuilder.DialectName, sqlbuilder.QualifyContext) {
	switch strings.ToLower(cfg.Type) {
	case "postgresql", "postgres":
		return sqlbuilder.DialectPostgreSQL, sqlbuilder.QualifyContext{}
	case "cube":
		return sqlbuilder.DialectCube, sqlbuilder.QualifyContext{}
	case "mysql":
		return sqlbuilder.DialectMySQL, sqlbuilder.QualifyContext{}
	case "snowflake":
		return sqlbuilder.DialectSnowflake, sqlbuilder.QualifyContext{Schema: cfg.SchemaName}
	case "databricks":
		return sqlbuilder.DialectDatabricks, sqlbuilder.QualifyContext{Catalog: cfg.Catalog}
	case "bigquery":
		return sqlbuilder.DialectBigQuery, sqlbuilder.QualifyContext{Project: cfg.ProjectID, Dataset: cfg.DatasetID}
	default:
		return sqlbuilder.DialectDuckDB, sqlbuilder.QualifyContext{}
	}
}

// driverFor returns the cached Driver for datasourceName, opening and
// caching it (or its open error) on first use. A cached open failure is
// returned again rather than retried, so every leaf against a source that
// failed to connect is isolated as a failure without re-dialing per leaf
// (spec §7's ConnectionError policy: "those leaves are recorded as
// failures and others proceed").
func (r *Runner) driverFor(ctx context.Context, datasourceName string) (driver.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.drivers[datasourceName]; ok {
		return d, nil
	}
	if err, ok := r.dialErr[datasourceName]; ok {
		return nil, err
	}

	cfg, ok := r.sources[datasourceName]
	if !ok {
		err := errs.ErrConfig("unknown datasource %q", datasourceName)
		r.dialErr[datasourceName] = err
		return nil, err
	}

	d, err := r.openDriver(ctx, cfg)
	if err != nil {
		r.dialErr[datasourceName] = err
		return nil, err
	}
	r.drivers[datasourceName] = d
	return d, nil
}

// Close releases every connection pool this Runner opened.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, d := range r.drivers {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// executeUnit runs one dispatch unit to completion and returns every
// MetricRecord it produces: one for a scalar leaf, one per dimension/
// time-bucket row for a grouped leaf, one for an anomaly leaf, or a
// single synthetic failure record if composition, connection, or query
// execution failed before any observation was produced.
func (r *Runner) executeUnit(ctx context.Context, runID string, u dispatchUnit) []model.MetricRecord {
	if u.leaf.Type == model.CheckTypeAnomaly {
		return []model.MetricRecord{r.executeAnomaly(ctx, runID, u)}
	}

	d, err := r.driverFor(ctx, u.desc.Datasource)
	if err != nil {
		return []model.MetricRecord{r.failureRecord(runID, u, err)}
	}

	result, err := d.Execute(ctx, u.leaf.SQLText)
	if err != nil {
		return []model.MetricRecord{r.failureRecord(runID, u, err)}
	}

	observations, err := expander.ExpandRows(u.desc, u.leaf, result)
	if err != nil {
		return []model.MetricRecord{r.failureRecord(runID, u, err)}
	}

	records := make([]model.MetricRecord, 0, len(observations))
	for _, obs := range observations {
		records = append(records, r.observationRecord(runID, u, obs))
	}
	return records
}

// observationRecord turns one resolved Observation into its MetricRecord,
// applying the condition evaluator and the null-measurement policy (spec
// §4.5: null fails, except not_empty/not_empty_pct treat a null (from an
// empty table) as 0).
func (r *Runner) observationRecord(runID string, u dispatchUnit, obs expander.Observation) model.MetricRecord {
	rec := baseRecord(runID, u.leaf)
	rec.DimensionValues = obs.DimensionValues
	rec.TimeBucket = obs.TimeBucket

	value := obs.Value
	if value == nil {
		if u.leaf.Type == model.CheckTypeNotEmpty || u.leaf.Type == model.CheckTypeNotEmptyPct {
			zero := 0.0
			value = &zero
		} else {
			rec.ActualValue = nil
			rec.Fail = true
			rec.Success = false
			return rec
		}
	}

	rec.ActualValue = value
	pass := evaluator.Evaluate(u.leaf.Condition, u.leaf.Threshold, *value)
	rec.Success = pass
	rec.Fail = !pass
	return rec
}

// executeAnomaly resolves the referenced check_id/filter history, runs the
// Anomaly Analyzer, and evaluates the condition against the resulting
// z-score (spec §4.6).
func (r *Runner) executeAnomaly(ctx context.Context, runID string, u dispatchUnit) model.MetricRecord {
	rec := baseRecord(runID, u.leaf)

	filter := metricstore.HistoryFilter{
		CheckID:   u.desc.CheckID,
		Predicate: strings.Join(u.desc.Filter, " AND "),
	}
	series, err := r.store.History(ctx, filter)
	if err != nil {
		rec.Fail = true
		rec.ErrorMessage = err.Error()
		return rec
	}

	result := anomaly.Analyze(r.logger, u.desc.CheckID, series)
	if result.InsufficientHistory {
		zero := 0.0
		rec.ActualValue = &zero
		rec.Success = true
		rec.Fail = false
		return rec
	}

	rec.ActualValue = &result.Value
	pass := evaluator.Evaluate(u.leaf.Condition, u.leaf.Threshold, result.Value)
	rec.Success = pass
	rec.Fail = !pass
	return rec
}

// failureRecord builds the isolated-failure MetricRecord for a leaf that
// never produced a measurement: a CompileError, ConnectionError, or
// QueryError (spec §7).
func (r *Runner) failureRecord(runID string, u dispatchUnit, err error) model.MetricRecord {
	rec := baseRecord(runID, u.leaf)
	rec.Fail = true
	rec.Success = false
	rec.ErrorMessage = err.Error()
	return rec
}

// baseRecord populates the fields every MetricRecord shares regardless of
// outcome, including the Open Question 2 resolution for long raw-SQL
// dataset identifiers (spec §9): the stored Dataset column is hashed past
// a length threshold, while DatasetText always keeps the canonical text.
func baseRecord(runID string, leaf model.LeafCheck) model.MetricRecord {
	identifier := leaf.Dataset.Identifier()
	rec := model.MetricRecord{
		RunID:       runID,
		CheckID:     leaf.CheckID,
		Name:        leaf.Name,
		Datasource:  leaf.Datasource,
		Dataset:     model.StoredDatasetIdentifier(identifier),
		DatasetText: identifier,
		Type:        leaf.Type,
		Condition:   leaf.Condition,
		RunTime:     time.Now().UTC(),
	}
	if leaf.Threshold.IsPair {
		rec.ThresholdList = []float64{leaf.Threshold.Pair[0], leaf.Threshold.Pair[1]}
	} else if leaf.Threshold.Scalar != nil {
		v := *leaf.Threshold.Scalar
		rec.Threshold = &v
	}
	return rec
}
