package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// MissingMarkers are the cell values read as missing, matched after trimming spaces.
var MissingMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// LoadOptions controls how delimited input is parsed.
type LoadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text with a header row. Malformed rows, empty input and
// invalid UTF-8 yield a *ParseError.
func ReadCSV(name string, r io.Reader, opt LoadOptions) (*Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("read: %w", err)}
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return nil, &ParseError{Source: name, Line: invalidUTF8Line(b), Err: errors.New("invalid UTF-8 encoding")}
	}
	cr := csv.NewReader(bytes.NewReader(b))
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Source: name, Line: pe.Line, Err: pe.Err}
		}
		return nil, &ParseError{Source: name, Err: err}
	}
	return FromRecords(name, records)
}

// ReadXLSX loads one sheet of a workbook; the first row is the header.
func ReadXLSX(name string, r io.Reader, opt LoadOptions) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()
	sheet := opt.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Source: name, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	// excelize trims trailing empty cells; pad every row to the header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			if len(row) > width {
				return nil, &ParseError{Source: name, Line: i + 1, Err: fmt.Errorf("row has %d cells, header has %d", len(row), width)}
			}
			if len(row) < width {
				padded := make([]string, width)
				copy(padded, row)
				rows[i] = padded
			}
		}
	}
	return FromRecords(name, rows)
}

// FromRecords builds a dataset from a header row followed by data rows.
// Column types are inferred by the dataframe loader.
func FromRecords(name string, records [][]string) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, &ParseError{Source: name, Err: errors.New("empty input: no header row")}
	}
	header := records[0]
	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		ds, err := FromFrame(name, dataframe.New(cols...))
		if err != nil {
			return nil, &ParseError{Source: name, Err: err}
		}
		return ds, nil
	}
	normalized := make([][]string, len(records))
	normalized[0] = append([]string(nil), header...)
	for i := 1; i < len(records); i++ {
		row := make([]string, len(records[i]))
		for j, v := range records[i] {
			if isMissingMarker(v) {
				row[j] = naToken
				continue
			}
			row[j] = trimNumeric(v)
		}
		normalized[i] = row
	}
	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return nil, &ParseError{Source: name, Err: df.Err}
	}
	if renamed := renamedColumns(header, df.Names()); len(renamed) > 0 {
		slog.Warn("duplicate or blank column names were renamed",
			slog.String("name", name),
			slog.String("columns", strings.Join(renamed, ", ")))
	}
	slog.Debug("dataset loaded",
		slog.String("name", name),
		slog.Int("rows", df.Nrow()),
		slog.Int("cols", df.Ncol()))
	return &Dataset{Name: name, df: df}, nil
}

// trimNumeric strips surrounding spaces from cells that parse as numbers so
// padded columns such as "1, 2" are typed numerically. Text is kept verbatim.
func trimNumeric(v string) string {
	t := strings.TrimSpace(v)
	if t == v {
		return v
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return t
	}
	return v
}

// renamedColumns lists "old -> new" for every header the dataframe loader
// replaced.
func renamedColumns(header, names []string) []string {
	var out []string
	for i, h := range header {
		if i < len(names) && names[i] != h {
			out = append(out, fmt.Sprintf("%q -> %q", h, names[i]))
		}
	}
	return out
}

func isMissingMarker(v string) bool {
	v = strings.TrimSpace(v)
	for _, m := range MissingMarkers {
		if v == m {
			return true
		}
	}
	return false
}

func invalidUTF8Line(b []byte) int {
	line := 1
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		b = b[size:]
	}
	return 0
}
