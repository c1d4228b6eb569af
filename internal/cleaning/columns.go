package cleaning

import (
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
)

// NormalizeName replaces every space in a column label with an underscore.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeColumnNames renames every column with NormalizeName. Cell values are
// untouched. Fails without changing anything when two labels would collide.
func NormalizeColumnNames(ds *dataset.Dataset) (*dataset.Dataset, error) {
	old := ds.Names()
	names := make([]string, len(old))
	for i, n := range old {
		names[i] = NormalizeName(n)
	}
	return ds.WithNames(names)
}
