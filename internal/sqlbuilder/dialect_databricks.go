package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// databricksDialect speaks Spark SQL; the driver honors http_path and an
// access token (spec §4.2), while the SQL composed here qualifies tables
// by catalog when one is configured.
type databricksDialect struct {
	qualify QualifyContext
}

func (d *databricksDialect) Name() DialectName { return DialectDatabricks }

func (d *databricksDialect) QuoteIdentifier(name string) string { return "`" + name + "`" }
func (d *databricksDialect) QuoteLiteral(value string) string   { return QuoteLiteral(value) }

func (d *databricksDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	switch granularity {
	case model.GranularitySecond, model.GranularityMinute, model.GranularityHour,
		model.GranularityDay, model.GranularityWeek, model.GranularityMonth,
		model.GranularityQuarter, model.GranularityYear:
		return fmt.Sprintf("date_trunc('%s', %s)", granularity, colExpr), nil
	case model.GranularityDecade:
		return d.yearMultipleFloor(colExpr, 10), nil
	case model.GranularityCentury:
		return d.yearMultipleFloor(colExpr, 100), nil
	case model.GranularityMillennium:
		return d.yearMultipleFloor(colExpr, 1000), nil
	default:
		return "", unsupportedGranularity(DialectDatabricks, granularity)
	}
}

func (d *databricksDialect) yearMultipleFloor(colExpr string, n int) string {
	floor := yearFloorExpr(fmt.Sprintf("year(%s)", colExpr), n)
	return fmt.Sprintf("make_date(%s, 1, 1)", floor)
}

func (d *databricksDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS DOUBLE)", expr)
}

func (d *databricksDialect) BoolLiteral(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (d *databricksDialect) QualifyTable(table string) string {
	if d.qualify.Catalog != "" {
		return d.QuoteIdentifier(d.qualify.Catalog) + "." + d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(table)
}
