// Package expander turns one declared CheckDescriptor into the concrete
// leaves the Runner executes, and turns each leaf's query result back into
// the one-or-many observations a grouped (dimension- or time-bucketed)
// leaf represents (spec §4.4).
//
// Dataset-list and not_empty-per-dimension fan-out happen at compile time
// and are owned by internal/sqlbuilder, since they determine the SQL text
// itself; Expand is the stable entry point the Runner calls so that
// composition stays a single-sourced concern. The fan-out this package
// owns directly is the one that can only happen after a query runs:
// dimension-grouped and time-bucketed checks emit a single SQL statement
// that returns many rows, and each row becomes its own MetricRecord.
package expander

import (
	"fmt"
	"time"

	"github.com/weiser-io/weiser/internal/driver"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
	"github.com/weiser-io/weiser/internal/sqlbuilder"
)

// Expand composes desc into its leaves for dialect. Dataset-list fan-out
// (one leaf per listed table) and not_empty/not_empty_pct per-dimension
// fan-out (one leaf per dimension) happen here already, via
// sqlbuilder.Compose; dimensions-as-group-by and time-bucket fan-out are
// resolved later, from the leaf's query result, by ExpandRows.
func Expand(desc model.CheckDescriptor, dialect sqlbuilder.Dialect) ([]model.LeafCheck, error) {
	return sqlbuilder.Compose(desc, dialect)
}

// Observation is one row's worth of a grouped leaf's result: the dimension
// values and/or time bucket that row was grouped by, plus the measured
// value in that group. A scalar (non-grouped) leaf always expands to
// exactly one Observation with no dimension values and no time bucket.
type Observation struct {
	DimensionValues []string
	TimeBucket      *time.Time
	Value           *float64
}

// ExpandRows turns leaf's query result into one Observation per returned
// row, positionally matching desc's declared dimensions and time
// dimension to the SELECT column order sqlbuilder.Compose produced:
// dimension columns, then the time-bucket alias if present, then the
// measured value last (spec §4.1's compositional rules, §4.4's fan-out
// order "dataset list → dimensions-as-rows → time buckets").
func ExpandRows(desc model.CheckDescriptor, leaf model.LeafCheck, result *driver.QueryResult) ([]Observation, error) {
	switch leaf.ResultInterpreter {
	case model.InterpretScalar:
		value, ok := result.Scalar()
		if !ok {
			return nil, errs.ErrQuery(leaf.SQLText, "expected a single-row single-column result, got %d rows / %d columns", len(result.Rows), len(result.Columns))
		}
		v, err := toFloat64(value)
		if err != nil {
			return nil, errs.ErrQuery(leaf.SQLText, "non-numeric scalar result: %v", err)
		}
		return []Observation{{Value: v}}, nil

	case model.InterpretGroupedRows:
		numDims := len(desc.Dimensions)
		hasTimeBucket := desc.TimeDimension != nil
		wantCols := numDims + 1
		if hasTimeBucket {
			wantCols++
		}

		out := make([]Observation, 0, len(result.Rows))
		for _, row := range result.Rows {
			if len(row) != wantCols {
				return nil, errs.ErrQuery(leaf.SQLText, "expected %d columns per row, got %d", wantCols, len(row))
			}

			obs := Observation{}
			if numDims > 0 {
				obs.DimensionValues = make([]string, numDims)
				for i := 0; i < numDims; i++ {
					obs.DimensionValues[i] = toString(row[i])
				}
			}
			idx := numDims
			if hasTimeBucket {
				t, err := toTime(row[idx])
				if err != nil {
					return nil, errs.ErrQuery(leaf.SQLText, "non-timestamp time_bucket result: %v", err)
				}
				obs.TimeBucket = t
				idx++
			}
			v, err := toFloat64(row[idx])
			if err != nil {
				return nil, errs.ErrQuery(leaf.SQLText, "non-numeric measured value: %v", err)
			}
			obs.Value = v
			out = append(out, obs)
		}
		return out, nil

	case model.InterpretAnomaly:
		return nil, errs.ErrQuery("", "anomaly leaves have no query result to expand")

	default:
		return nil, errs.ErrQuery(leaf.SQLText, "unknown result interpreter %q", leaf.ResultInterpreter)
	}
}

// toFloat64 normalizes a driver-returned scalar to *float64; nil maps to a
// nil pointer, matching spec §4.5's observed-null policy.
func toFloat64(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case float32:
		f := float64(n)
		return &f, nil
	case int64:
		f := float64(n)
		return &f, nil
	case int32:
		f := float64(n)
		return &f, nil
	case int:
		f := float64(n)
		return &f, nil
	default:
		return nil, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toTime(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported time type %T", v)
	}
}
