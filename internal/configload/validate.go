package configload

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

// Validate checks a fully-converted set of checks and datasources for the
// load-time errors spec §7 calls out: unknown type/condition (already
// rejected during conversion), a between condition without a pair (ditto),
// and the anomaly-specific check_id/filter requirement (spec §9, Open
// Question 1: reject "neither" as a ConfigError; "both" is allowed and
// narrows the history query rather than being ambiguous).
func Validate(checks []model.CheckDescriptor, datasources map[string]DatasourceConfig, hasMetricStore bool) []error {
	var errsOut []error

	if !hasMetricStore {
		errsOut = append(errsOut, errs.ErrConfig("configuration must declare at least one connection of type metricstore"))
	}

	seenNames := map[string]bool{}
	for _, c := range checks {
		if c.Name == "" {
			errsOut = append(errsOut, errs.ErrConfig("check has empty name"))
			continue
		}
		seenNames[c.Name] = true

		if c.Type != model.CheckTypeAnomaly {
			if _, ok := datasources[c.Datasource]; !ok && c.Datasource != "default" {
				errsOut = append(errsOut, errs.ErrConfig("check %q references unknown datasource %q", c.Name, c.Datasource))
			}
		}

		if err := validateCheckShape(c); err != nil {
			errsOut = append(errsOut, fmt.Errorf("check %q: %w", c.Name, err))
		}
	}

	return errsOut
}

func validateCheckShape(c model.CheckDescriptor) error {
	switch c.Type {
	case model.CheckTypeSum, model.CheckTypeMin, model.CheckTypeMax, model.CheckTypeNumeric, model.CheckTypeMeasure:
		if c.Measure == "" {
			return errs.ErrConfig("type %q requires a measure", c.Type)
		}
	case model.CheckTypeNotEmpty, model.CheckTypeNotEmptyPct:
		if len(c.Dimensions) == 0 {
			return errs.ErrConfig("type %q requires at least one dimension", c.Type)
		}
	case model.CheckTypeAnomaly:
		if c.CheckID == "" && len(c.Filter) == 0 {
			return errs.ErrConfig("anomaly check requires check_id, filter, or both")
		}
	case model.CheckTypeRowCount:
		// no required fields beyond dataset
	}

	if c.Condition == "" {
		return errs.ErrConfig("condition is required")
	}

	if c.Dataset.Kind() == "table" && c.Dataset.Table == "" && c.Dataset.RawSQL == "" && len(c.Dataset.Tables) == 0 {
		return errs.ErrConfig("dataset is required")
	}

	return nil
}
