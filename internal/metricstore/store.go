// Package metricstore persists evaluation outcomes to an append-only
// metrics table and serves the history queries the Anomaly Analyzer reads
// back from. Two interchangeable backends implement Store: an embedded
// DuckDB file (duckdb_store.go) and a relational PostgreSQL database
// (postgres_store.go).
package metricstore

import (
	"context"
	"strings"

	"github.com/weiser-io/weiser/internal/model"
)

// HistoryFilter narrows a history lookup beyond checkId. When Predicate is
// set, it is a raw SQL boolean expression evaluated against the stored
// columns — used by anomaly checks declared with filter instead of
// check_id (spec §4.6, and §9's "both" resolution).
type HistoryFilter struct {
	CheckID   string
	Predicate string
	Limit     int
}

// Store is the append-only metric store contract shared by both backends
// (spec §4.3).
type Store interface {
	// Initialize ensures the schema exists and applies any pending
	// migrations. Safe to call repeatedly.
	Initialize(ctx context.Context) error

	// Write appends one evaluation outcome. Append-only: never call Write
	// twice for the same observation, and never update a written record.
	Write(ctx context.Context, record model.MetricRecord) error

	// History returns actualValue observations ordered by runTime
	// ascending, matching filter.
	History(ctx context.Context, filter HistoryFilter) ([]float64, error)

	// LastValue is a convenience over History: the most recent actualValue
	// for checkID, or false if there is no recorded history.
	LastValue(ctx context.Context, checkID string) (float64, bool, error)

	// Close releases the underlying connection pool or client.
	Close() error
}

// historyWhere builds the WHERE predicate for a history lookup, combining
// CheckID and Predicate with AND when both are set — the Open Question 1
// resolution (spec §9): "both supplied" narrows the history retrieved for
// the given check_id by the additional filter, rather than being
// ambiguous. placeholder is the backend's parameter marker for the first
// (and only) bound argument ("?" for the embedded store, "$1" for
// PostgreSQL).
func historyWhere(filter HistoryFilter, placeholder string) (string, []any) {
	var parts []string
	var args []any
	if filter.CheckID != "" {
		parts = append(parts, "check_id = "+placeholder)
		args = append(args, filter.CheckID)
	}
	if filter.Predicate != "" {
		parts = append(parts, "("+filter.Predicate+")")
	}
	return strings.Join(parts, " AND "), args
}
