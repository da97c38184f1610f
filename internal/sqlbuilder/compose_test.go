package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiser-io/weiser/internal/errs"
	"github.com/weiser-io/weiser/internal/model"
)

func mustDialect(t *testing.T, name DialectName) Dialect {
	t.Helper()
	d, err := ForName(name, QualifyContext{})
	require.NoError(t, err)
	return d
}

func TestCompose_RowCountScalar(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, model.InterpretScalar, leaves[0].ResultInterpreter)
	assert.Equal(t, `SELECT COUNT(*) FROM "orders"`, leaves[0].SQLText)
	assert.NotEmpty(t, leaves[0].CheckID)
}

func TestCompose_DatasetListFansOutToOneLeafPerTable(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Tables: []string{"orders_us", "orders_eu"}},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Contains(t, leaves[0].SQLText, `"orders_us"`)
	assert.Contains(t, leaves[1].SQLText, `"orders_eu"`)
	assert.NotEqual(t, leaves[0].CheckID, leaves[1].CheckID)
}

func TestCompose_SumRequiresMeasure(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "revenue",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeSum,
		Condition:  model.ConditionBetween,
	}
	_, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.Error(t, err)
}

func TestCompose_DimensionsGroupByAndYieldGroupedRows(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_by_region",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
		Dimensions: []string{"region"},
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, model.InterpretGroupedRows, leaves[0].ResultInterpreter)
	assert.Equal(t, `SELECT "region", COUNT(*) FROM "orders" GROUP BY "region"`, leaves[0].SQLText)
}

func TestCompose_TimeDimensionBucketsByDateTrunc(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_daily",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
		TimeDimension: &model.TimeDimension{
			Name:        "created_at",
			Granularity: model.GranularityDay,
		},
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, model.InterpretGroupedRows, leaves[0].ResultInterpreter)
	assert.Contains(t, leaves[0].SQLText, `date_trunc('day', "created_at") AS "time_bucket"`)
	assert.Contains(t, leaves[0].SQLText, "GROUP BY date_trunc('day', \"created_at\")")
}

func TestCompose_RawSQLDatasetWrappedAsSubquery(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "active_users",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{RawSQL: "SELECT * FROM users WHERE active = true"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, `SELECT COUNT(*) FROM ( SELECT * FROM users WHERE active = true ) AS "d"`, leaves[0].SQLText)
}

func TestCompose_FilterListJoinedWithAnd(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
		Filter:     []string{"status = 'paid'", "region = 'us'"},
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "orders" WHERE status = 'paid' AND region = 'us'`, leaves[0].SQLText)
}

func TestCompose_NotEmptyFansOutOneLeafPerDimension(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_complete",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeNotEmpty,
		Condition:  model.ConditionEQ,
		Dimensions: []string{"customer_id", "shipped_at"},
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, "orders_complete_customer_id_not_empty", leaves[0].Name)
	assert.Equal(t, "orders_complete_shipped_at_not_empty", leaves[1].Name)
	assert.Equal(t, leaves[0].CheckID, leaves[1].CheckID, "dimension fan-out shares one checkId per dataset element")
	for _, l := range leaves {
		assert.Equal(t, model.InterpretScalar, l.ResultInterpreter)
		assert.NotContains(t, l.SQLText, "GROUP BY")
	}
}

func TestCompose_NotEmptyPctUsesRatioOfCasts(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_complete",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeNotEmptyPct,
		Condition:  model.ConditionLE,
		Dimensions: []string{"customer_id"},
	}
	leaves, err := Compose(desc, mustDialect(t, DialectMySQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Contains(t, leaves[0].SQLText, "CAST(SUM(CASE WHEN `customer_id` IS NULL THEN 1 ELSE 0 END) AS DOUBLE) / CAST(COUNT(*) AS DOUBLE)")
}

func TestCompose_AnomalyProducesNoSourceSQL(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "revenue_anomaly",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeAnomaly,
		Condition:  model.ConditionBetween,
		CheckID:    "some-referenced-check-id",
	}
	leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, model.InterpretAnomaly, leaves[0].ResultInterpreter)
	assert.Empty(t, leaves[0].SQLText)
}

func TestCompose_IsDeterministic(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "orders_by_region",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeSum,
		Measure:    "amount",
		Condition:  model.ConditionBetween,
		Dimensions: []string{"region"},
		TimeDimension: &model.TimeDimension{
			Name:        "created_at",
			Granularity: model.GranularityMonth,
		},
	}
	d := mustDialect(t, DialectSnowflake)
	first, err := Compose(desc, d)
	require.NoError(t, err)
	second, err := Compose(desc, d)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompose_NumericAndMeasurePassMeasureVerbatim(t *testing.T) {
	for _, ct := range []model.CheckType{model.CheckTypeNumeric, model.CheckTypeMeasure} {
		desc := model.CheckDescriptor{
			Name:       "gross_margin",
			Datasource: "warehouse",
			Dataset:    model.DatasetRef{Table: "orders"},
			Type:       ct,
			Measure:    "sum(revenue) - sum(cost)",
			Condition:  model.ConditionGE,
		}
		leaves, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
		require.NoError(t, err)
		assert.Equal(t, `SELECT sum(revenue) - sum(cost) FROM "orders"`, leaves[0].SQLText)
	}
}

func TestCompose_MalformedTableNameIsCompileError(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders; DROP TABLE users"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
	}
	_, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.Error(t, err)
	assert.IsType(t, &errs.CompileError{}, err)
}

func TestCompose_MalformedDimensionIsCompileError(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
		Dimensions: []string{"tenant_id; --"},
	}
	_, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.Error(t, err)
	assert.IsType(t, &errs.CompileError{}, err)
}

func TestCompose_MalformedTimeDimensionIsCompileError(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:          "row_count",
		Datasource:    "warehouse",
		Dataset:       model.DatasetRef{Table: "orders"},
		Type:          model.CheckTypeRowCount,
		Condition:     model.ConditionGT,
		TimeDimension: &model.TimeDimension{Name: "created at", Granularity: model.GranularityDay},
	}
	_, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.Error(t, err)
	assert.IsType(t, &errs.CompileError{}, err)
}

func TestCompose_MalformedNotEmptyDimensionIsCompileError(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "completeness",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Table: "orders"},
		Type:       model.CheckTypeNotEmpty,
		Condition:  model.ConditionEQ,
		Dimensions: []string{"email.domain"},
	}
	_, err := Compose(desc, mustDialect(t, DialectPostgreSQL))
	require.Error(t, err)
	assert.IsType(t, &errs.CompileError{}, err)
}
