// Package model defines the core data types shared by every stage of the
// check-compilation-and-execution engine: the declared check, its expanded
// leaves, and the metric records persisted for each evaluation.
package model

import "time"

// CheckType selects which measured expression the Composer emits for a
// declared check.
type CheckType string

const (
	CheckTypeRowCount     CheckType = "row_count"
	CheckTypeSum          CheckType = "sum"
	CheckTypeMin          CheckType = "min"
	CheckTypeMax          CheckType = "max"
	CheckTypeNumeric      CheckType = "numeric"
	CheckTypeMeasure      CheckType = "measure"
	CheckTypeNotEmpty     CheckType = "not_empty"
	CheckTypeNotEmptyPct  CheckType = "not_empty_pct"
	CheckTypeAnomaly      CheckType = "anomaly"
)

// Condition is the predicate applied to a measured value.
type Condition string

const (
	ConditionGT      Condition = "gt"
	ConditionGE      Condition = "ge"
	ConditionLT      Condition = "lt"
	ConditionLE      Condition = "le"
	ConditionEQ      Condition = "eq"
	ConditionNEQ     Condition = "neq"
	ConditionBetween Condition = "between"
)

// Granularity is the bucket size for a time-dimensioned check.
type Granularity string

const (
	GranularityMillennium Granularity = "millennium"
	GranularityCentury    Granularity = "century"
	GranularityDecade     Granularity = "decade"
	GranularityYear       Granularity = "year"
	GranularityQuarter    Granularity = "quarter"
	GranularityMonth      Granularity = "month"
	GranularityWeek       Granularity = "week"
	GranularityDay        Granularity = "day"
	GranularityHour       Granularity = "hour"
	GranularityMinute     Granularity = "minute"
	GranularitySecond     Granularity = "second"
)

// TimeDimension buckets rows by date_trunc(Granularity, Name) before
// aggregation.
type TimeDimension struct {
	Name        string      `yaml:"name"`
	Granularity Granularity `yaml:"granularity"`
}

// Threshold holds either a single scalar (unary conditions) or an ordered
// [lo, hi] pair (the between condition). Exactly one form is populated.
type Threshold struct {
	Scalar   *float64
	Pair     [2]float64
	IsPair   bool
}

// CheckDescriptor is one check as declared by the operator. It is immutable
// once loaded.
type CheckDescriptor struct {
	Name          string
	Datasource    string
	Dataset       DatasetRef
	Type          CheckType
	Condition     Condition
	Threshold     Threshold
	Measure       string
	Dimensions    []string
	TimeDimension *TimeDimension
	Filter        []string
	CheckID       string // only for anomaly: the referenced checkId
	Description   string
}

// DatasetRef is one table name, a list of table names, or a raw SQL SELECT.
// Exactly one of the three is non-zero.
type DatasetRef struct {
	Table  string
	Tables []string
	RawSQL string
}

// Kind reports which form of dataset reference is populated.
func (d DatasetRef) Kind() string {
	switch {
	case d.RawSQL != "":
		return "raw_sql"
	case len(d.Tables) > 0:
		return "table_list"
	default:
		return "table"
	}
}

// List normalizes the dataset reference into the set of leaves it expands
// to: a single-element slice for "table" and "raw_sql", one element per
// table for "table_list".
func (d DatasetRef) List() []DatasetRef {
	if len(d.Tables) > 0 {
		out := make([]DatasetRef, len(d.Tables))
		for i, t := range d.Tables {
			out[i] = DatasetRef{Table: t}
		}
		return out
	}
	return []DatasetRef{d}
}

// Identifier returns the string used to fingerprint this dataset reference:
// the table name, or the raw SQL text. Used only for single (non-list)
// dataset references; callers must resolve DatasetRef.List() first.
func (d DatasetRef) Identifier() string {
	if d.RawSQL != "" {
		return d.RawSQL
	}
	return d.Table
}

// LeafCheck is one concrete sub-check produced by the Expander. It yields
// exactly one numeric observation per run.
type LeafCheck struct {
	CheckID           string
	Name              string
	Datasource        string
	Dataset           DatasetRef
	Type              CheckType
	Condition         Condition
	Threshold         Threshold
	SQLText           string
	DimensionValues   []string
	TimeBucket        *time.Time
	ResultInterpreter ResultInterpreter
}

// ResultInterpreter tags how a leaf's query result maps to actualValue,
// so the Runner doesn't need to special-case check types.
type ResultInterpreter string

const (
	InterpretScalar      ResultInterpreter = "scalar"       // single row, single column
	InterpretGroupedRows  ResultInterpreter = "grouped_rows" // one row per dimension/time bucket, value is the last column
	InterpretAnomaly      ResultInterpreter = "anomaly"      // computed by the Anomaly Analyzer, not a query
)

// MetricRecord is one persisted evaluation outcome.
type MetricRecord struct {
	ID              int64
	RunID           string
	CheckID         string
	Name            string
	Datasource      string
	Dataset         string // table name, canonical join, or (possibly hashed) raw SQL identifier
	DatasetText     string // always the full canonical text, regardless of Dataset hashing
	Type            CheckType
	Condition       Condition
	Threshold       *float64
	ThresholdList   []float64
	ActualValue     *float64
	Success         bool
	Fail            bool
	RunTime         time.Time
	DimensionValues []string
	TimeBucket      *time.Time
	ErrorMessage    string
}
