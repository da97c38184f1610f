package configload

import (
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

var validCheckTypes = map[string]model.CheckType{
	"row_count":     model.CheckTypeRowCount,
	"sum":           model.CheckTypeSum,
	"min":           model.CheckTypeMin,
	"max":           model.CheckTypeMax,
	"numeric":       model.CheckTypeNumeric,
	"measure":       model.CheckTypeMeasure,
	"not_empty":     model.CheckTypeNotEmpty,
	"not_empty_pct": model.CheckTypeNotEmptyPct,
	"anomaly":       model.CheckTypeAnomaly,
}

var validConditions = map[string]model.Condition{
	"gt":      model.ConditionGT,
	"ge":      model.ConditionGE,
	"lt":      model.ConditionLT,
	"le":      model.ConditionLE,
	"eq":      model.ConditionEQ,
	"neq":     model.ConditionNEQ,
	"between": model.ConditionBetween,
}

var validGranularities = map[string]model.Granularity{
	"millennium": model.GranularityMillennium,
	"century":    model.GranularityCentury,
	"decade":     model.GranularityDecade,
	"year":       model.GranularityYear,
	"quarter":    model.GranularityQuarter,
	"month":      model.GranularityMonth,
	"week":       model.GranularityWeek,
	"day":        model.GranularityDay,
	"hour":       model.GranularityHour,
	"minute":     model.GranularityMinute,
	"second":     model.GranularitySecond,
}

// ToCheckDescriptors converts every CheckConfig in doc to a model.CheckDescriptor,
// defaulting Datasource to "default" when unset (spec §3).
func ToCheckDescriptors(doc *Document) ([]model.CheckDescriptor, error) {
	out := make([]model.CheckDescriptor, 0, len(doc.Checks))
	for _, c := range doc.Checks {
		d, err := toCheckDescriptor(c)
		if err != nil {
			return nil, errs.ErrConfig("check %q: %v", c.Name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func toCheckDescriptor(c CheckConfig) (model.CheckDescriptor, error) {
	if c.Name == "" {
		return model.CheckDescriptor{}, errs.ErrConfig("name is required")
	}

	checkType, ok := validCheckTypes[c.Type]
	if !ok {
		if c.Type == "" {
			checkType = model.CheckTypeNumeric
		} else {
			return model.CheckDescriptor{}, errs.ErrConfig("unknown check type %q", c.Type)
		}
	}

	var condition model.Condition
	if c.Condition != "" {
		condition, ok = validConditions[c.Condition]
		if !ok {
			return model.CheckDescriptor{}, errs.ErrConfig("unknown condition %q", c.Condition)
		}
	}

	dataset, err := toDatasetRef(c.Dataset)
	if err != nil {
		return model.CheckDescriptor{}, err
	}

	filter, err := c.Filter.AsStringList()
	if err != nil {
		return model.CheckDescriptor{}, errs.ErrConfig("filter: %v", err)
	}

	threshold, err := toThreshold(c.Threshold, condition)
	if err != nil {
		return model.CheckDescriptor{}, err
	}

	var timeDim *model.TimeDimension
	if c.TimeDimension != nil {
		g, ok := validGranularities[c.TimeDimension.Granularity]
		if !ok {
			return model.CheckDescriptor{}, errs.ErrConfig("unknown time_dimension granularity %q", c.TimeDimension.Granularity)
		}
		timeDim = &model.TimeDimension{Name: c.TimeDimension.Name, Granularity: g}
	}

	datasource := c.Datasource
	if datasource == "" {
		datasource = "default"
	}

	return model.CheckDescriptor{
		Name:          c.Name,
		Datasource:    datasource,
		Dataset:       dataset,
		Type:          checkType,
		Condition:     condition,
		Threshold:     threshold,
		Measure:       c.Measure,
		Dimensions:    c.Dimensions,
		TimeDimension: timeDim,
		Filter:        filter,
		CheckID:       c.CheckID,
		Description:   c.Description,
	}, nil
}

func toDatasetRef(node RawNode) (model.DatasetRef, error) {
	list, err := node.AsStringList()
	if err != nil {
		return model.DatasetRef{}, errs.ErrConfig("dataset: %v", err)
	}
	if len(list) == 0 {
		return model.DatasetRef{}, errs.ErrConfig("dataset is required")
	}
	if len(list) == 1 {
		return classifyDataset(list[0]), nil
	}
	return model.DatasetRef{Tables: list}, nil
}

// classifyDataset distinguishes a bare table name from a raw SQL SELECT by
// looking for whitespace: a table identifier never contains a space, tab,
// or newline, so any string that does is treated as raw SQL.
func classifyDataset(s string) model.DatasetRef {
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			return model.DatasetRef{RawSQL: s}
		}
	}
	return model.DatasetRef{Table: s}
}

func toThreshold(node RawNode, condition model.Condition) (model.Threshold, error) {
	scalar, pair, isPair, err := node.AsThreshold()
	if err != nil {
		return model.Threshold{}, errs.ErrConfig("threshold: %v", err)
	}
	if condition == model.ConditionBetween {
		if !isPair {
			return model.Threshold{}, errs.ErrConfig("between condition requires a [lo, hi] threshold pair")
		}
		if pair[0] > pair[1] {
			return model.Threshold{}, errs.ErrConfig("between threshold pair must satisfy lo <= hi, got [%v, %v]", pair[0], pair[1])
		}
		return model.Threshold{Pair: pair, IsPair: true}, nil
	}
	if isPair {
		return model.Threshold{}, errs.ErrConfig("condition %q requires a single scalar threshold, got a pair", condition)
	}
	return model.Threshold{Scalar: scalar}, nil
}
