package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weiser-io/weiser/internal/model"
)

func scalarThreshold(v float64) model.Threshold {
	return model.Threshold{Scalar: &v}
}

func pairThreshold(lo, hi float64) model.Threshold {
	return model.Threshold{Pair: [2]float64{lo, hi}, IsPair: true}
}

func TestEvaluate_Unary(t *testing.T) {
	assert.True(t, Evaluate(model.ConditionGT, scalarThreshold(0), 4))
	assert.False(t, Evaluate(model.ConditionGT, scalarThreshold(4), 4))
	assert.True(t, Evaluate(model.ConditionGE, scalarThreshold(4), 4))
	assert.True(t, Evaluate(model.ConditionLT, scalarThreshold(5), 4))
	assert.True(t, Evaluate(model.ConditionLE, scalarThreshold(4), 4))
	assert.True(t, Evaluate(model.ConditionEQ, scalarThreshold(4), 4))
	assert.True(t, Evaluate(model.ConditionNEQ, scalarThreshold(3), 4))
}

func TestEvaluate_BetweenIsInclusiveOnBothEnds(t *testing.T) {
	th := pairThreshold(1000, 2000)
	assert.True(t, Evaluate(model.ConditionBetween, th, 1000))
	assert.True(t, Evaluate(model.ConditionBetween, th, 2000))
	assert.True(t, Evaluate(model.ConditionBetween, th, 1006))
	assert.False(t, Evaluate(model.ConditionBetween, th, 2500))
	assert.False(t, Evaluate(model.ConditionBetween, th, 999))
}
