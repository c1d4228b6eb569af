// Package export turns a dataset into downloadable payloads.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/xuri/excelize/v2"
)

// CSV serializes ds as comma-separated bytes.
func CSV(ds *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 encodes an export payload for embedding in a link.
func Base64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DataURI wraps a CSV payload as a data URI suitable for an href.
func DataURI(b []byte) string {
	return "data:file/csv;base64," + Base64(b)
}

// DownloadLink renders an anchor pointing at the CSV payload.
func DownloadLink(b []byte, label string) string {
	if label == "" {
		label = "Download csv file"
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, DataURI(b), label)
}

// WriteXLSX writes ds to a single-sheet workbook. Numeric cells are stored as
// numbers and missing cells are left blank.
func WriteXLSX(w io.Writer, ds *dataset.Dataset, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = "data"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	names := ds.Names()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	numeric := make([][]float64, len(names))
	for i, n := range names {
		k, err := ds.Kind(n)
		if err != nil {
			return err
		}
		if k != dataset.KindNumeric {
			continue
		}
		vals, _, err := ds.Floats(n)
		if err != nil {
			return err
		}
		numeric[i] = vals
	}
	recs := ds.Records()
	for r := 1; r < len(recs); r++ {
		row := make([]interface{}, len(names))
		for c, v := range recs[r] {
			if v == "" {
				row[c] = nil
				continue
			}
			if numeric[c] != nil {
				row[c] = numeric[c][r-1]
				continue
			}
			row[c] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
