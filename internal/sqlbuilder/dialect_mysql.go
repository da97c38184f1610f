package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/weiser-io/weiser/internal/model"
)

// mysqlDialect has no native date_trunc, so every granularity is built
// from DATE_FORMAT/FLOOR arithmetic instead.
type mysqlDialect struct {
	qualify QualifyContext
}

func (d *mysqlDialect) Name() DialectName { return DialectMySQL }

// MySQL uses backticks for identifiers rather than double quotes.
func (d *mysqlDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *mysqlDialect) QuoteLiteral(value string) string { return QuoteLiteral(value) }

func (d *mysqlDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	switch granularity {
	case model.GranularitySecond:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d %%H:%%i:%%s')", colExpr), nil
	case model.GranularityMinute:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d %%H:%%i:00')", colExpr), nil
	case model.GranularityHour:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d %%H:00:00')", colExpr), nil
	case model.GranularityDay:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", colExpr), nil
	case model.GranularityWeek:
		return fmt.Sprintf("DATE_SUB(%s, INTERVAL WEEKDAY(%s) DAY)", colExpr, colExpr), nil
	case model.GranularityMonth:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-01')", colExpr), nil
	case model.GranularityQuarter:
		return fmt.Sprintf("MAKEDATE(YEAR(%s), 1) + INTERVAL QUARTER(%s) QUARTER - INTERVAL 1 QUARTER", colExpr, colExpr), nil
	case model.GranularityYear:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-01-01')", colExpr), nil
	case model.GranularityDecade:
		return d.yearMultipleFloor(colExpr, 10), nil
	case model.GranularityCentury:
		return d.yearMultipleFloor(colExpr, 100), nil
	case model.GranularityMillennium:
		return d.yearMultipleFloor(colExpr, 1000), nil
	default:
		return "", unsupportedGranularity(DialectMySQL, granularity)
	}
}

func (d *mysqlDialect) yearMultipleFloor(colExpr string, n int) string {
	floor := yearFloorExpr(fmt.Sprintf("YEAR(%s)", colExpr), n)
	return fmt.Sprintf("MAKEDATE(%s, 1)", floor)
}

func (d *mysqlDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS DOUBLE)", expr)
}

func (d *mysqlDialect) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (d *mysqlDialect) QualifyTable(table string) string {
	return d.QuoteIdentifier(table)
}
