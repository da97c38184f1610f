package metricstore

import (
	"encoding/json"
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// writeColumns flattens a MetricRecord into the positional column values
// shared by both backends' INSERT statement. dimension_values is stored as
// a JSON array since neither backend's database/sql driver binds a bare Go
// []string to a native array column uniformly across dialects.
func writeColumns(r model.MetricRecord) ([]any, error) {
	dimJSON, err := encodeDimensionValues(r.DimensionValues)
	if err != nil {
		return nil, fmt.Errorf("encode dimension_values: %w", err)
	}

	var thresholdLo, thresholdHi *float64
	if len(r.ThresholdList) == 2 {
		thresholdLo, thresholdHi = &r.ThresholdList[0], &r.ThresholdList[1]
	}

	return []any{
		r.RunID,
		r.CheckID,
		r.Name,
		r.Datasource,
		r.Dataset,
		r.DatasetText,
		string(r.Type),
		string(r.Condition),
		r.Threshold,
		thresholdLo,
		thresholdHi,
		r.ActualValue,
		r.Success,
		r.Fail,
		r.RunTime,
		dimJSON,
		r.TimeBucket,
		nullableString(r.ErrorMessage),
	}, nil
}

func encodeDimensionValues(dims []string) (*string, error) {
	if len(dims) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(dims)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func decodeDimensionValues(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var dims []string
	if err := json.Unmarshal([]byte(*raw), &dims); err != nil {
		return nil, err
	}
	return dims, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// insertColumnList is the column order writeColumns produces values for,
// shared verbatim by both backends' INSERT statements.
const insertColumnList = `run_id, check_id, name, datasource, dataset, dataset_text, type, condition,
	threshold, threshold_lo, threshold_hi, actual_value, success, fail, run_time,
	dimension_values, time_bucket, error_message`
