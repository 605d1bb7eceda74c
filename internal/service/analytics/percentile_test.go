// internal/service/analytics/percentile_test.go

package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileOfScore(t *testing.T) {
	tests := []struct {
		name     string
		cohort   []float64
		value    float64
		expected float64
	}{
		{
			name:     "member in the middle",
			cohort:   []float64{10, 20, 30},
			value:    20,
			expected: 50,
		},
		{
			name:     "member at the top",
			cohort:   []float64{10, 20, 30},
			value:    30,
			expected: 100,
		},
		{
			name:     "member at the bottom",
			cohort:   []float64{10, 20, 30},
			value:    10,
			expected: 0,
		},
		{
			name:     "non-member below everything",
			cohort:   []float64{10, 20, 30},
			value:    5,
			expected: 0,
		},
		{
			name:     "non-member above everything",
			cohort:   []float64{10, 20, 30},
			value:    35,
			expected: 100,
		},
		{
			name:     "non-member between members",
			cohort:   []float64{10, 20, 30},
			value:    25,
			expected: 100 * 2.0 / 3.0,
		},
		{
			name:     "all tied",
			cohort:   []float64{10, 10, 10},
			value:    10,
			expected: 50,
		},
		{
			name:     "tie pair at the top",
			cohort:   []float64{10, 20, 20},
			value:    20,
			expected: 75,
		},
		{
			name:     "single member cohort",
			cohort:   []float64{42},
			value:    42,
			expected: 100,
		},
		{
			name:     "empty cohort is neutral",
			cohort:   nil,
			value:    123,
			expected: 50,
		},
		{
			name:     "NaN-only cohort is neutral",
			cohort:   []float64{math.NaN(), math.NaN()},
			value:    1,
			expected: 50,
		},
		{
			name:     "NaN members are ignored",
			cohort:   []float64{10, math.NaN(), 20, 30},
			value:    20,
			expected: 50,
		},
		{
			name:     "NaN value ranks at zero",
			cohort:   []float64{10, 20, 30},
			value:    math.NaN(),
			expected: 0,
		},
		{
			name:     "negative deltas rank too",
			cohort:   []float64{-5, 0, 5},
			value:    0,
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentileOfScore(tt.cohort, tt.value)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestPercentileOfScoreBounds(t *testing.T) {
	cohorts := [][]float64{
		{1, 2, 3, 4, 5},
		{0, 0, 0, 1},
		{-10, -5, 0, 5, 10},
	}
	values := []float64{-100, -1, 0, 0.5, 3, 100}

	for _, cohort := range cohorts {
		for _, value := range values {
			got := PercentileOfScore(cohort, value)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}
