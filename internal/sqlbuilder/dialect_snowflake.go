package sqlbuilder

import (
	"fmt"

	"github.com/weiser-io/weiser/internal/model"
)

// snowflakeDialect honors warehouse/role/schema at the connection level
// (internal/driver); at the SQL-composition level, only the schema
// qualifies table references.
type snowflakeDialect struct {
	qualify QualifyContext
}

func (d *snowflakeDialect) Name() DialectName { return DialectSnowflake }

func (d *snowflakeDialect) QuoteIdentifier(name string) string { return QuoteIdentifier(name) }
func (d *snowflakeDialect) QuoteLiteral(value string) string   { return QuoteLiteral(value) }

func (d *snowflakeDialect) DateTrunc(colExpr string, granularity model.Granularity) (string, error) {
	switch granularity {
	case model.GranularitySecond, model.GranularityMinute, model.GranularityHour,
		model.GranularityDay, model.GranularityWeek, model.GranularityMonth,
		model.GranularityQuarter, model.GranularityYear:
		return fmt.Sprintf("DATE_TRUNC('%s', %s)", granularity, colExpr), nil
	case model.GranularityDecade:
		return d.yearMultipleFloor(colExpr, 10), nil
	case model.GranularityCentury:
		return d.yearMultipleFloor(colExpr, 100), nil
	case model.GranularityMillennium:
		return d.yearMultipleFloor(colExpr, 1000), nil
	default:
		return "", unsupportedGranularity(DialectSnowflake, granularity)
	}
}

func (d *snowflakeDialect) yearMultipleFloor(colExpr string, n int) string {
	floor := yearFloorExpr(fmt.Sprintf("YEAR(%s)", colExpr), n)
	return fmt.Sprintf("DATE_FROM_PARTS(%s, 1, 1)", floor)
}

func (d *snowflakeDialect) CastDouble(expr string) string {
	return fmt.Sprintf("CAST(%s AS DOUBLE)", expr)
}

func (d *snowflakeDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (d *snowflakeDialect) QualifyTable(table string) string {
	if d.qualify.Schema != "" {
		return d.QuoteIdentifier(d.qualify.Schema) + "." + d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(table)
}
