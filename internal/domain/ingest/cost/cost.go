// Package cost classifies line items as fixed or variable from their monthly
// value profile.
package cost

import "math"

// Classification is the fixed/variable verdict for a line item.
type Classification string

const (
	Fixed    Classification = "fixed"
	Variable Classification = "variable"
)

// Minimum non-zero sample counts required before a fixed verdict is even
// considered. The two thresholds are distinct operating points, not a bug:
// per-asset spot checks accept two data points, full annual budget analysis
// demands half a year of them.
const (
	MinSamplesQuick  = 2
	MinSamplesAnnual = 6
)

// RelativeDeviationLimit is the fixed-cost tolerance: every non-zero month
// must sit within 5% of the non-zero mean.
const RelativeDeviationLimit = 0.05

// Classify inspects a line item's monthly values. Zero months are excluded
// from the deviation check (a fixed annual or quarterly cost simply does not
// bill every month) but do not themselves disqualify a fixed verdict. Fewer
// than minSamples non-zero values always reads as variable: there is not
// enough evidence to call anything fixed.
func Classify(monthly []float64, minSamples int) Classification {
	if minSamples < 1 {
		minSamples = 1
	}

	nonZero := make([]float64, 0, len(monthly))
	for _, v := range monthly {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) < minSamples {
		return Variable
	}

	var sum float64
	for _, v := range nonZero {
		sum += v
	}
	mean := sum / float64(len(nonZero))
	if mean == 0 {
		return Variable
	}

	for _, v := range nonZero {
		if math.Abs(v-mean)/math.Abs(mean) >= RelativeDeviationLimit {
			return Variable
		}
	}
	return Fixed
}

// ClassifyCents is Classify over integer-cent values.
func ClassifyCents(monthly []int64, minSamples int) Classification {
	vals := make([]float64, len(monthly))
	for i, c := range monthly {
		vals[i] = float64(c)
	}
	return Classify(vals, minSamples)
}
