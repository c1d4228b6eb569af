package cleaning

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

// Method selects the statistic used to fill missing numeric values.
type Method string

const (
	MethodMean   Method = "mean"
	MethodMedian Method = "median"
)

// ParseMethod accepts mean|median in any case.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodMean:
		return MethodMean, nil
	case MethodMedian:
		return MethodMedian, nil
	default:
		return "", fmt.Errorf("invalid imputation method %q (use mean or median)", s)
	}
}

// DropMissingRows removes every row holding at least one missing value.
func DropMissingRows(ds *dataset.Dataset) (*dataset.Dataset, error) {
	keep := make([]int, 0, ds.Nrow())
	for i := 0; i < ds.Nrow(); i++ {
		if !ds.RowHasMissing(i) {
			keep = append(keep, i)
		}
	}
	return ds.Rows(keep)
}

// Impute fills the missing values of every numeric column with that column's mean
// or median over its non-missing values. Columns without a defined statistic
// (non-numeric, or no values at all) keep their missing cells. The returned slice
// names the columns that were filled.
func Impute(ds *dataset.Dataset, method Method) (*dataset.Dataset, []string, error) {
	out := ds
	var filled []string
	for _, name := range ds.Names() {
		k, err := ds.Kind(name)
		if err != nil {
			return nil, nil, err
		}
		if k != dataset.KindNumeric {
			continue
		}
		vals, missing, err := ds.Floats(name)
		if err != nil {
			return nil, nil, err
		}
		present := make([]float64, 0, len(vals))
		nMissing := 0
		for i, v := range vals {
			if missing[i] {
				nMissing++
				continue
			}
			present = append(present, v)
		}
		if nMissing == 0 || len(present) == 0 {
			continue
		}
		fill := stats.Mean(present)
		if method == MethodMedian {
			fill = stats.Median(present)
		}
		for i := range vals {
			if missing[i] {
				vals[i] = fill
			}
		}
		out, err = out.WithFloatColumn(name, vals)
		if err != nil {
			return nil, nil, fmt.Errorf("impute %q: %w", name, err)
		}
		slog.Debug("imputed column",
			slog.String("column", name),
			slog.String("method", string(method)),
			slog.Float64("value", fill),
			slog.Int("filled", nMissing))
		filled = append(filled, name)
	}
	return out, filled, nil
}
