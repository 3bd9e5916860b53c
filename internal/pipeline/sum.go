package pipeline

import (
	"math"
	"sort"
)

// stableSum adds values in ascending order with Neumaier compensation, so any permutation of
// the same values yields the same bits.
func stableSum(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum, c float64
	for _, v := range sorted {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			c += (sum - t) + v
		} else {
			c += (v - t) + sum
		}
		sum = t
	}
	return sum + c
}
