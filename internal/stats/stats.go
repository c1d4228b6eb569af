// Package stats holds the descriptive statistics used by cleaning and profiling.
// All functions expect NaN-free input; callers drop missing values first.
package stats

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Sorted returns a sorted copy of vals.
func Sorted(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// Quantile returns the q-th quantile of sorted values using linear interpolation
// between order statistics at position q*(n-1). Empty input yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quartiles returns the 25th and 75th percentiles of unsorted values.
func Quartiles(vals []float64) (q1, q3 float64) {
	s := Sorted(vals)
	return Quantile(s, 0.25), Quantile(s, 0.75)
}

// Mean returns the arithmetic mean, or NaN for empty input.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return series.Floats(vals).Mean()
}

// Median returns the 50th percentile, or NaN for empty input.
func Median(vals []float64) float64 {
	return Quantile(Sorted(vals), 0.5)
}

// Std returns the sample standard deviation (n-1 denominator). Fewer than two
// values yield NaN.
func Std(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	return series.Floats(vals).StdDev()
}

// MinMax returns the smallest and largest values; empty input yields NaNs.
func MinMax(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	s := series.Floats(vals)
	return s.Min(), s.Max()
}

// Pearson returns the correlation of paired samples, or NaN when undefined.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}
