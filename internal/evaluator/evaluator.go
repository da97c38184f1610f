// Package evaluator applies a declared condition to a measured value,
// yielding the pass/fail outcome recorded on every MetricRecord (spec
// §4.5).
package evaluator

import "github.com/weiser-io/weiser/internal/model"

// Evaluate applies threshold's condition to value and reports whether the
// check passed. It is total over the condition enum: every declared
// model.Condition is handled, with between inclusive on both ends (spec
// §4.5, §8).
func Evaluate(condition model.Condition, threshold model.Threshold, value float64) bool {
	switch condition {
	case model.ConditionGT:
		return value > scalar(threshold)
	case model.ConditionGE:
		return value >= scalar(threshold)
	case model.ConditionLT:
		return value < scalar(threshold)
	case model.ConditionLE:
		return value <= scalar(threshold)
	case model.ConditionEQ:
		return value == scalar(threshold)
	case model.ConditionNEQ:
		return value != scalar(threshold)
	case model.ConditionBetween:
		lo, hi := threshold.Pair[0], threshold.Pair[1]
		return value >= lo && value <= hi
	default:
		return false
	}
}

func scalar(t model.Threshold) float64 {
	if t.Scalar == nil {
		return 0
	}
	return *t.Scalar
}
