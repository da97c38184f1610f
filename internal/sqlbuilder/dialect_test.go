package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiser-io/weiser/internal/model"
)

func TestForName_UnknownDialectIsConfigError(t *testing.T) {
	_, err := ForName("oracle", QualifyContext{})
	require.Error(t, err)
}

func TestForName_CubeSharesPostgresDialect(t *testing.T) {
	d, err := ForName(DialectCube, QualifyContext{})
	require.NoError(t, err)
	assert.Equal(t, DialectCube, d.Name())
	trunc, err := d.DateTrunc(`"ts"`, model.GranularityDecade)
	require.NoError(t, err)
	assert.Equal(t, `date_trunc('decade', "ts")`, trunc)
}

func TestDateTrunc_FallbackGranularitiesForSnowflakeDatabricksBigQuery(t *testing.T) {
	cases := []struct {
		dialect DialectName
		gran    model.Granularity
	}{
		{DialectSnowflake, model.GranularityDecade},
		{DialectSnowflake, model.GranularityCentury},
		{DialectSnowflake, model.GranularityMillennium},
		{DialectDatabricks, model.GranularityDecade},
		{DialectDatabricks, model.GranularityCentury},
		{DialectDatabricks, model.GranularityMillennium},
		{DialectBigQuery, model.GranularityDecade},
		{DialectBigQuery, model.GranularityCentury},
		{DialectBigQuery, model.GranularityMillennium},
	}
	for _, tc := range cases {
		d, err := ForName(tc.dialect, QualifyContext{})
		require.NoError(t, err)
		expr, err := d.DateTrunc(`"created_at"`, tc.gran)
		require.NoError(t, err, "%s/%s should fall back to arithmetic, not error", tc.dialect, tc.gran)
		assert.NotEmpty(t, expr)
	}
}

func TestDateTrunc_NativeGranularitiesForPostgresAndDuckDB(t *testing.T) {
	for _, name := range []DialectName{DialectPostgreSQL, DialectDuckDB} {
		d, err := ForName(name, QualifyContext{})
		require.NoError(t, err)
		for _, g := range []model.Granularity{
			model.GranularityMillennium, model.GranularityCentury, model.GranularityDecade,
			model.GranularityYear, model.GranularityQuarter, model.GranularityMonth,
			model.GranularityWeek, model.GranularityDay, model.GranularityHour,
			model.GranularityMinute, model.GranularitySecond,
		} {
			_, err := d.DateTrunc(`"ts"`, g)
			require.NoError(t, err, "%s should natively support %s", name, g)
		}
	}
}

func TestQualifyTable_BigQueryPrependsProjectAndDataset(t *testing.T) {
	d, err := ForName(DialectBigQuery, QualifyContext{Project: "acme", Dataset: "analytics"})
	require.NoError(t, err)
	assert.Equal(t, "`acme`.`analytics`.`orders`", d.QualifyTable("orders"))
}

func TestQualifyTable_DatabricksPrependsCatalog(t *testing.T) {
	d, err := ForName(DialectDatabricks, QualifyContext{Catalog: "main"})
	require.NoError(t, err)
	assert.Equal(t, "`main`.`orders`", d.QualifyTable("orders"))
}

func TestQualifyTable_NoQualifierPassesThrough(t *testing.T) {
	d, err := ForName(DialectPostgreSQL, QualifyContext{})
	require.NoError(t, err)
	assert.Equal(t, `"orders"`, d.QualifyTable("orders"))
}

func TestBoolLiteral_MySQLUsesTinyint(t *testing.T) {
	d, err := ForName(DialectMySQL, QualifyContext{})
	require.NoError(t, err)
	assert.Equal(t, "1", d.BoolLiteral(true))
	assert.Equal(t, "0", d.BoolLiteral(false))
}
