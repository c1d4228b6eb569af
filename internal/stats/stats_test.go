package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	vals := []float64{100, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	q1, q3 := Quartiles(vals)
	assert.InDelta(t, 3.25, q1, 1e-12)
	assert.InDelta(t, 7.75, q3, 1e-12)

	s := Sorted(vals)
	assert.Equal(t, 1.0, Quantile(s, 0))
	assert.Equal(t, 100.0, Quantile(s, 1))
	assert.Equal(t, []float64{100, 1, 2, 3, 4, 5, 6, 7, 8, 9}, vals, "input must not be reordered")
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMeanMedian(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestStdAndMinMax(t *testing.T) {
	assert.InDelta(t, 1.2909944, Std([]float64{1, 2, 3, 4}), 1e-6)
	assert.True(t, math.IsNaN(Std([]float64{1})))

	lo, hi := MinMax([]float64{3, -1, 7})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, Pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.True(t, math.IsNaN(Pearson([]float64{1, 1}, []float64{1, 2})))
}

func TestPearson_PairwiseScale(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 5}
	assert.InDelta(t, 0.8, Pearson(x, y), 1e-12)
	assert.True(t, math.IsNaN(Pearson(x, y[:3])))
}

func TestMinMax_Empty(t *testing.T) {
	lo, hi := MinMax(nil)
	assert.True(t, math.IsNaN(lo))
	assert.True(t, math.IsNaN(hi))
	assert.True(t, math.IsNaN(Std(nil)))
}
