package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		monthly    []float64
		minSamples int
		expected   Classification
	}{
		{
			name:       "twelve identical months is fixed",
			monthly:    []float64{1850, 1850, 1850, 1850, 1850, 1850, 1850, 1850, 1850, 1850, 1850, 1850},
			minSamples: MinSamplesAnnual,
			expected:   Fixed,
		},
		{
			name:       "small jitter within tolerance is fixed",
			monthly:    []float64{100, 101, 99, 100, 100, 100, 102, 100, 100, 100, 100, 98},
			minSamples: MinSamplesAnnual,
			expected:   Fixed,
		},
		{
			name:       "one outlier month is variable",
			monthly:    []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 250},
			minSamples: MinSamplesAnnual,
			expected:   Variable,
		},
		{
			name:       "all zero is variable",
			monthly:    []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			minSamples: MinSamplesAnnual,
			expected:   Variable,
		},
		{
			name:       "quarterly charge lacks annual samples",
			monthly:    []float64{300, 0, 0, 300, 0, 0, 300, 0, 0, 300, 0, 0},
			minSamples: MinSamplesAnnual,
			expected:   Variable,
		},
		{
			name:       "quarterly charge passes quick check",
			monthly:    []float64{300, 0, 0, 300, 0, 0, 300, 0, 0, 300, 0, 0},
			minSamples: MinSamplesQuick,
			expected:   Fixed,
		},
		{
			name:       "zero months excluded from deviation",
			monthly:    []float64{500, 500, 0, 500, 500, 500, 0, 500, 500, 500, 500, 500},
			minSamples: MinSamplesAnnual,
			expected:   Fixed,
		},
		{
			name:       "single sample below quick threshold",
			monthly:    []float64{300, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			minSamples: MinSamplesQuick,
			expected:   Variable,
		},
		{
			name:       "empty input is variable",
			monthly:    nil,
			minSamples: MinSamplesQuick,
			expected:   Variable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.monthly, tt.minSamples))
		})
	}
}

func TestClassifyCents(t *testing.T) {
	fixed := []int64{185000, 185000, 185000, 185000, 185000, 185000, 185000, 185000, 185000, 185000, 185000, 185000}
	assert.Equal(t, Fixed, ClassifyCents(fixed, MinSamplesAnnual))

	variable := []int64{52050, 61000, 43500, 58800, 49900, 62300, 51000, 47700, 60100, 55400, 48800, 59900}
	assert.Equal(t, Variable, ClassifyCents(variable, MinSamplesAnnual))
}
