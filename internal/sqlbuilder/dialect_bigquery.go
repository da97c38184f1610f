package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// bigqueryDialect qualifies bare table names with project.dataset when
// configured (spec §4.2's "project/dataset/location").
type bigqueryDialect struct {
	qualify QualifyContext
}

func (d *bigqueryDialect) Name() DialectName { return DialectBigQuery }

func (d *bigqueryDialect) QuoteIdentifier(name string) string { return "`" + name + "`" }
func (d *bigqueryDialect) QuoteLiteral(value string) string   { return QuoteLiteral(value) }

func (d *bigqueryDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	switch granularity {
	case model.GranularitySecond, model.GranularityMinute, model.GranularityHour,
		model.GranularityDay, model.GranularityWeek, model.GranularityMonth,
		model.GranularityQuarter, model.GranularityYear:
		return fmt.Sprintf("TIMESTAMP_TRUNC(%s, %s)", colExpr, bigqueryPart(granularity)), nil
	case model.GranularityDecade:
		return d.yearMultipleFloor(colExpr, 10), nil
	case model.GranularityCentury:
		return d.yearMultipleFloor(colExpr, 100), nil
	case model.GranularityMillennium:
		return d.yearMultipleFloor(colExpr, 1000), nil
	default:
		return "", unsupportedGranularity(DialectBigQuery, granularity)
	}
}

func bigqueryPart(g model.Granularity) string {
	switch g {
	case model.GranularitySecond:
		return "SECOND"
	case model.GranularityMinute:
		return "MINUTE"
	case model.GranularityHour:
		return "HOUR"
	case model.GranularityDay:
		return "DAY"
	case model.GranularityWeek:
		return "WEEK"
	case model.GranularityMonth:
		return "MONTH"
	case model.GranularityQuarter:
		return "QUARTER"
	case model.GranularityYear:
		return "YEAR"
	default:
		return "DAY"
	}
}

func (d *bigqueryDialect) yearMultipleFloor(colExpr string, n int) string {
	floor := yearFloorExpr(fmt.Sprintf("EXTRACT(YEAR FROM %s)", colExpr), n)
	return fmt.Sprintf("DATE(%s, 1, 1)", floor)
}

func (d *bigqueryDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS FLOAT64)", expr)
}

func (d *bigqueryDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (d *bigqueryDialect) QualifyTable(table string) string {
	parts := ""
	if d.qualify.Project != "" {
		parts += d.QuoteIdentifier(d.qualify.Project) + "."
	}
	if d.qualify.Dataset != "" {
		parts += d.QuoteIdentifier(d.qualify.Dataset) + "."
	}
	return parts + d.QuoteIdentifier(table)
}
