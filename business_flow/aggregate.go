package businessflow

import (
	"sort"

	"github.com/klb1963/yachtpricer/utils"
)

// AggregatePrices reduces the accepted competitor prices for one
// (yacht, week) to the two summary figures the comparison table shows:
// the cheapest offer and the mean of the cheapest min(3, n) offers,
// rounded to 2 decimals. ok is false for an empty input; callers must then
// write no snapshot at all rather than a zeroed one.
func AggregatePrices(prices []float64) (top1, top3Avg float64, ok bool) {
	if len(prices) == 0 {
		return 0, 0, false
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	top1 = sorted[0]

	n := len(sorted)
	if n > 3 {
		n = 3
	}
	var sum float64
	for _, p := range sorted[:n] {
		sum += p
	}
	top3Avg = utils.Round2(sum / float64(n))

	return top1, top3Avg, true
}
