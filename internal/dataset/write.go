package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the header and every row as comma-separated text with no
// index column. Missing cells are written as empty fields.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i, rec := range d.Records() {
		if err := cw.Write(rec); err != nil {
			if i == 0 {
				return fmt.Errorf("write header: %w", err)
			}
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
