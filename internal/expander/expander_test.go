package expander

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiser-io/weiser/internal/driver"
	"github.com/weiser-io/weiser/internal/model"
	"github.com/weiser-io/weiser/internal/sqlbuilder"
)

func mustDialect(t *testing.T) sqlbuilder.Dialect {
	t.Helper()
	d, err := sqlbuilder.ForName(sqlbuilder.DialectPostgreSQL, sqlbuilder.QualifyContext{})
	require.NoError(t, err)
	return d
}

func TestExpand_DatasetListProducesOneLeafPerTable(t *testing.T) {
	desc := model.CheckDescriptor{
		Name:       "row_count",
		Datasource: "warehouse",
		Dataset:    model.DatasetRef{Tables: []string{"orders", "vendors"}},
		Type:       model.CheckTypeRowCount,
		Condition:  model.ConditionGT,
	}
	leaves, err := Expand(desc, mustDialect(t))
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.NotEqual(t, leaves[0].CheckID, leaves[1].CheckID)
}

func TestExpandRows_ScalarLeaf(t *testing.T) {
	desc := model.CheckDescriptor{Type: model.CheckTypeRowCount}
	leaf := model.LeafCheck{ResultInterpreter: model.InterpretScalar}
	result := &driver.QueryResult{Columns: []string{"count"}, Rows: [][]any{{int64(4)}}}

	obs, err := ExpandRows(desc, leaf, result)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	require.NotNil(t, obs[0].Value)
	assert.Equal(t, float64(4), *obs[0].Value)
	assert.Empty(t, obs[0].DimensionValues)
}

func TestExpandRows_GroupedRowsWithDimension(t *testing.T) {
	desc := model.CheckDescriptor{
		Type:       model.CheckTypeRowCount,
		Dimensions: []string{"tenant_id"},
	}
	leaf := model.LeafCheck{ResultInterpreter: model.InterpretGroupedRows}
	result := &driver.QueryResult{
		Columns: []string{"tenant_id", "count"},
		Rows: [][]any{
			{"1", int64(2)},
			{"2", int64(1)},
		},
	}

	obs, err := ExpandRows(desc, leaf, result)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, []string{"1"}, obs[0].DimensionValues)
	assert.Equal(t, float64(2), *obs[0].Value)
	assert.Equal(t, []string{"2"}, obs[1].DimensionValues)
	assert.Equal(t, float64(1), *obs[1].Value)
}

func TestExpandRows_GroupedRowsWrongColumnCountIsQueryError(t *testing.T) {
	desc := model.CheckDescriptor{Type: model.CheckTypeRowCount, Dimensions: []string{"region"}}
	leaf := model.LeafCheck{ResultInterpreter: model.InterpretGroupedRows}
	result := &driver.QueryResult{Columns: []string{"region"}, Rows: [][]any{{"us"}}}

	_, err := ExpandRows(desc, leaf, result)
	require.Error(t, err)
}

func TestExpandRows_AnomalyHasNoRowsToExpand(t *testing.T) {
	desc := model.CheckDescriptor{Type: model.CheckTypeAnomaly}
	leaf := model.LeafCheck{ResultInterpreter: model.InterpretAnomaly}
	_, err := ExpandRows(desc, leaf, &driver.QueryResult{})
	require.Error(t, err)
}
