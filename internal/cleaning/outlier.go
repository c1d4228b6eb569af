package cleaning

import (
	"log/slog"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

// FenceMultiplier scales the interquartile range into the outlier fence.
const FenceMultiplier = 1.5

// Fence is the open interval (Low, High) a value must fall in to be kept.
type Fence struct {
	Q1, Q3    float64
	IQR       float64
	Low, High float64
}

// Contains reports whether v lies strictly inside the fence.
func (f Fence) Contains(v float64) bool { return f.Low < v && v < f.High }

// ComputeFence derives the 1.5xIQR fence from the non-missing values of a numeric column.
func ComputeFence(ds *dataset.Dataset, column string) (Fence, error) {
	vals, err := ds.NonMissing(column)
	if err != nil {
		return Fence{}, err
	}
	q1, q3 := stats.Quartiles(vals)
	iqr := q3 - q1
	return Fence{
		Q1:   q1,
		Q3:   q3,
		IQR:  iqr,
		Low:  q1 - FenceMultiplier*iqr,
		High: q3 + FenceMultiplier*iqr,
	}, nil
}

// FilterOutliers returns the rows whose value in column lies strictly inside the
// 1.5xIQR fence. Rows missing that value are dropped. Column set, column order and
// the relative order of kept rows are preserved; ds is not modified.
func FilterOutliers(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	fence, err := ComputeFence(ds, column)
	if err != nil {
		return nil, err
	}
	vals, missing, err := ds.Floats(column)
	if err != nil {
		return nil, err
	}
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if missing[i] || !fence.Contains(v) {
			continue
		}
		keep = append(keep, i)
	}
	slog.Debug("outlier filter",
		slog.String("column", column),
		slog.Float64("low", fence.Low),
		slog.Float64("high", fence.High),
		slog.Int("kept", len(keep)),
		slog.Int("rows", len(vals)))
	return ds.Rows(keep)
}
