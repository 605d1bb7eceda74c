// internal/service/analytics/percentile.go

package analytics

import "math"

// PercentileOfScore returns the percentile rank of value within cohort on a
// 0-100 scale.
//
// A value present in the cohort is ranked against the other members, tied
// values sharing the mean of their rank range: with `below` elements strictly
// less and `equal` occurrences of the value itself (its own included), the
// rank is below + (equal-1)/2 out of n-1. An absent value ranks at the
// fraction of the cohort strictly below it. Reference points: in [10 20 30]
// the value 20 ranks at 50, 30 at 100, 5 at 0; in [10 10 10] the value 10
// ranks at 50.
//
// Degenerate inputs resolve, not fail: an empty cohort (or one that is empty
// after NaN filtering) ranks everything at the neutral midpoint 50, a NaN
// value ranks at 0, and a single-member cohort ranks its own value at 100.
func PercentileOfScore(cohort []float64, value float64) float64 {
	n := 0
	below, equal := 0, 0
	for _, v := range cohort {
		if math.IsNaN(v) {
			continue
		}
		n++
		switch {
		case v < value:
			below++
		case v == value:
			equal++
		}
	}

	if n == 0 {
		return 50
	}
	if math.IsNaN(value) {
		return 0
	}

	var pct float64
	switch {
	case equal > 0 && n == 1:
		pct = 100
	case equal > 0:
		rank := float64(below) + float64(equal-1)/2
		pct = 100 * rank / float64(n-1)
	default:
		pct = 100 * float64(below) / float64(n)
	}

	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
