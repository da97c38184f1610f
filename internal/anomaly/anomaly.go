// Package anomaly computes the modified z-score a Anomaly check evaluates
// (spec §4.6): a pure function over a history slice already fetched from
// the Metric Store.
package anomaly

import (
	"log/slog"
	"sort"
)

// minHistory is the smallest series length the modified z-score is
// computed over. Below it, there isn't enough history to call anything an
// anomaly (spec §4.6, §7's AnalyzerWarning).
const minHistory = 5

// zScoreConstant is the 0.6745 factor that makes the modified z-score
// comparable to a standard z-score under a normal distribution.
const zScoreConstant = 0.6745

// Result is the outcome of analyzing one history series: either a
// computed z-score, or the insufficient-history fallback (recorded as
// success with actualValue 0, not an error).
type Result struct {
	Value               float64
	InsufficientHistory bool
}

// Analyze computes the modified z-score of the most recent observation in
// series (ordered by runTime ascending, per the Metric Store's History
// contract) relative to the median and median absolute deviation of the
// whole series. With fewer than minHistory points, it logs an
// AnalyzerWarning and returns InsufficientHistory with Value 0 (spec
// §4.6, §7).
func Analyze(logger *slog.Logger, checkID string, series []float64) Result {
	if len(series) < minHistory {
		if logger != nil {
			logger.Warn("anomaly check has insufficient history", "check_id", checkID, "n", len(series), "required", minHistory)
		}
		return Result{Value: 0, InsufficientHistory: true}
	}

	m := median(series)
	deviations := make([]float64, len(series))
	for i, x := range series {
		deviations[i] = abs(x - m)
	}
	mad := median(deviations)

	latest := series[len(series)-1]
	if mad == 0 {
		return Result{Value: 0}
	}
	return Result{Value: zScoreConstant * (latest - m) / mad}
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
