package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/weiser-io/weiser/internal/ddl"
	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

const timeBucketAlias = "time_bucket"

// Compose translates a CheckDescriptor into one LeafCheck per dataset-list
// element (and, for not_empty/not_empty_pct, per dimension within each
// element) — spec §4.1's compositional rules and §4.4's fan-out order. It
// is pure: no connection, no execution, byte-identical output for the same
// descriptor and dialect (spec §8).
func Compose(desc model.CheckDescriptor, dialect Dialect) ([]model.LeafCheck, error) {
	if desc.Type == model.CheckTypeAnomaly {
		return composeAnomaly(desc)
	}

	var leaves []model.LeafCheck
	for _, dataset := range desc.Dataset.List() {
		datasetIdentifier := dataset.Identifier()
		checkID := model.FingerprintCheckID(desc.Datasource, desc.Name, datasetIdentifier)

		switch desc.Type {
		case model.CheckTypeNotEmpty, model.CheckTypeNotEmptyPct:
			for _, dim := range desc.Dimensions {
				sqlText, err := buildNotEmptyQuery(desc, dataset, dim, dialect)
				if err != nil {
					return nil, err
				}
				suffix := "_not_empty"
				if desc.Type == model.CheckTypeNotEmptyPct {
					suffix = "_not_empty_pct"
				}
				leaves = append(leaves, model.LeafCheck{
					CheckID:           checkID,
					Name:              fmt.Sprintf("%s_%s%s", desc.Name, dim, suffix),
					Datasource:        desc.Datasource,
					Dataset:           dataset,
					Type:              desc.Type,
					Condition:         desc.Condition,
					Threshold:         desc.Threshold,
					SQLText:           sqlText,
					ResultInterpreter: model.InterpretScalar,
				})
			}
		default:
			sqlText, grouped, err := buildAggregateQuery(desc, dataset, dialect)
			if err != nil {
				return nil, err
			}
			interpreter := model.InterpretScalar
			if grouped {
				interpreter = model.InterpretGroupedRows
			}
			leaves = append(leaves, model.LeafCheck{
				CheckID:           checkID,
				Name:              desc.Name,
				Datasource:        desc.Datasource,
				Dataset:           dataset,
				Type:              desc.Type,
				Condition:         desc.Condition,
				Threshold:         desc.Threshold,
				SQLText:           sqlText,
				ResultInterpreter: interpreter,
			})
		}
	}
	return leaves, nil
}

func composeAnomaly(desc model.CheckDescriptor) ([]model.LeafCheck, error) {
	datasetIdentifier := desc.Dataset.Identifier()
	checkID := model.FingerprintCheckID(desc.Datasource, desc.Name, datasetIdentifier)
	return []model.LeafCheck{{
		CheckID:           checkID,
		Name:              desc.Name,
		Datasource:        desc.Datasource,
		Dataset:           desc.Dataset,
		Type:              model.CheckTypeAnomaly,
		Condition:         desc.Condition,
		Threshold:         desc.Threshold,
		ResultInterpreter: model.InterpretAnomaly,
	}}, nil
}

// fromClause renders the FROM target for one dataset element: a qualified
// table reference, or a parenthesized subquery for a raw SQL dataset
// (spec §4.1: "dataset is a raw SELECT → wrapped as FROM ( <raw> ) AS d").
// A bare table name is validated before quoting; a raw SQL dataset is
// caller-authored and passed through, matching a "measure" expression's
// treatment.
func fromClause(dataset model.DatasetRef, dialect Dialect) (string, error) {
	if dataset.RawSQL != "" {
		return fmt.Sprintf("( %s ) AS %s", dataset.RawSQL, dialect.QuoteIdentifier("d")), nil
	}
	if err := validateColumnRef("table", dataset.Table); err != nil {
		return "", err
	}
	return dialect.QualifyTable(dataset.Table), nil
}

// validateColumnRef rejects a declared identifier (table, dimension, or
// time-dimension column name) before it reaches QuoteIdentifier, so a
// malformed name surfaces as a CompileError instead of being quoted
// unchecked (spec §7's CompileError: "a Composer invariant is violated for
// a specific leaf"). measure is a SQL expression, not an identifier (spec
// §3: "SQL expression or bare column"), and is never passed through here.
func validateColumnRef(kind, name string) error {
	if err := ddl.ValidateIdentifier(name); err != nil {
		return errs.ErrCompile("invalid %s %q: %v", kind, name, err)
	}
	return nil
}

// whereClause joins a filter list with AND into a single WHERE predicate,
// or returns "" when there is no filter (F is the literal true).
func whereClause(filter []string) string {
	if len(filter) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(filter, " AND ")
}

func valueExpr(checkType model.CheckType, measure string) (string, error) {
	switch checkType {
	case model.CheckTypeRowCount:
		return "COUNT(*)", nil
	case model.CheckTypeSum:
		if measure == "" {
			return "", errs.ErrCompile("sum requires a measure")
		}
		return fmt.Sprintf("SUM(%s)", measure), nil
	case model.CheckTypeMin:
		if measure == "" {
			return "", errs.ErrCompile("min requires a measure")
		}
		return fmt.Sprintf("MIN(%s)", measure), nil
	case model.CheckTypeMax:
		if measure == "" {
			return "", errs.ErrCompile("max requires a measure")
		}
		return fmt.Sprintf("MAX(%s)", measure), nil
	case model.CheckTypeNumeric, model.CheckTypeMeasure:
		if measure == "" {
			return "", errs.ErrCompile("%s requires a measure", checkType)
		}
		return measure, nil
	default:
		return "", errs.ErrCompile("unsupported check type %q for aggregate composition", checkType)
	}
}

// buildAggregateQuery composes the SELECT for row_count/sum/min/max/numeric/
// measure, returning whether the result is a grouped (multi-row) query.
func buildAggregateQuery(desc model.CheckDescriptor, dataset model.DatasetRef, dialect Dialect) (string, bool, error) {
	value, err := valueExpr(desc.Type, desc.Measure)
	if err != nil {
		return "", false, err
	}

	var selectCols, groupCols []string
	for _, dim := range desc.Dimensions {
		if err := validateColumnRef("dimension", dim); err != nil {
			return "", false, err
		}
		quoted := dialect.QuoteIdentifier(dim)
		selectCols = append(selectCols, quoted)
		groupCols = append(groupCols, quoted)
	}
	if desc.TimeDimension != nil {
		if err := validateColumnRef("time_dimension", desc.TimeDimension.Name); err != nil {
			return "", false, err
		}
		trunc, err := dialect.DateTrunc(dialect.QuoteIdentifier(desc.TimeDimension.Name), desc.TimeDimension.Granularity)
		if err != nil {
			return "", false, err
		}
		selectCols = append(selectCols, fmt.Sprintf("%s AS %s", trunc, dialect.QuoteIdentifier(timeBucketAlias)))
		groupCols = append(groupCols, trunc)
	}
	selectCols = append(selectCols, value)

	from, err := fromClause(dataset, dialect)
	if err != nil {
		return "", false, err
	}

	grouped := len(groupCols) > 0
	sql := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(selectCols, ", "), from, whereClause(desc.Filter))
	if grouped {
		sql += " GROUP BY " + strings.Join(groupCols, ", ")
	}
	return sql, grouped, nil
}

// buildNotEmptyQuery composes the SELECT for a single dimension of a
// not_empty/not_empty_pct check. Dimensions here are target columns, not
// group-by keys (spec §4.1).
func buildNotEmptyQuery(desc model.CheckDescriptor, dataset model.DatasetRef, dim string, dialect Dialect) (string, error) {
	if err := validateColumnRef("dimension", dim); err != nil {
		return "", err
	}
	quotedDim := dialect.QuoteIdentifier(dim)
	nullCount := fmt.Sprintf("SUM(CASE WHEN %s IS NULL THEN 1 ELSE 0 END)", quotedDim)

	value := nullCount
	if desc.Type == model.CheckTypeNotEmptyPct {
		value = fmt.Sprintf("%s / %s", dialect.CastDouble(nullCount), dialect.CastDouble("COUNT(*)"))
	}

	from, err := fromClause(dataset, dialect)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s%s", value, from, whereClause(desc.Filter)), nil
}
