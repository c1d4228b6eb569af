package dataset

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the scalar kind inferred for a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
	KindBoolean Kind = "boolean"
)

// naToken is the cell text gota reads back as a missing element.
const naToken = "NaN"

// Dataset is an ordered table of rows over a fixed, ordered column set.
// Operations never modify the receiver; they return a new Dataset.
type Dataset struct {
	Name string
	df   dataframe.DataFrame
}

// FromFrame wraps an existing DataFrame.
func FromFrame(name string, df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}
	return &Dataset{Name: name, df: df}, nil
}

// Frame exposes the underlying DataFrame.
func (d *Dataset) Frame() dataframe.DataFrame { return d.df }

func (d *Dataset) Nrow() int { return d.df.Nrow() }
func (d *Dataset) Ncol() int { return d.df.Ncol() }

// Names returns the column names in declared order.
func (d *Dataset) Names() []string { return d.df.Names() }

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	return d.columnIndex(name) >= 0
}

func (d *Dataset) columnIndex(name string) int {
	for i, n := range d.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns the series backing a column.
func (d *Dataset) Column(name string) (series.Series, error) {
	if !d.HasColumn(name) {
		return series.Series{}, &ColumnNotFoundError{Column: name, Available: d.Names()}
	}
	return d.df.Col(name), nil
}

// Kind reports the inferred kind of a column.
func (d *Dataset) Kind(name string) (Kind, error) {
	s, err := d.Column(name)
	if err != nil {
		return "", err
	}
	return kindOf(s.Type()), nil
}

// DType reports the storage type of a column: int, float, string or bool.
func (d *Dataset) DType(name string) (string, error) {
	s, err := d.Column(name)
	if err != nil {
		return "", err
	}
	return string(s.Type()), nil
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	case series.Bool:
		return KindBoolean
	default:
		return KindText
	}
}

// Floats returns the values of a numeric column together with a missing mask.
// Missing positions hold NaN.
func (d *Dataset) Floats(name string) ([]float64, []bool, error) {
	s, err := d.Column(name)
	if err != nil {
		return nil, nil, err
	}
	if k := kindOf(s.Type()); k != KindNumeric {
		return nil, nil, &TypeMismatchError{Column: name, Kind: k, Op: "numeric read"}
	}
	n := s.Len()
	vals := make([]float64, n)
	missing := make([]bool, n)
	for i := 0; i < n; i++ {
		e := s.Elem(i)
		if e.IsNA() {
			vals[i] = math.NaN()
			missing[i] = true
			continue
		}
		vals[i] = e.Float()
	}
	return vals, missing, nil
}

// NonMissing returns the non-missing values of a numeric column, in row order.
func (d *Dataset) NonMissing(name string) ([]float64, error) {
	vals, missing, err := d.Floats(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		if !missing[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// MissingCount returns how many cells of a column are missing.
func (d *Dataset) MissingCount(name string) (int, error) {
	s, err := d.Column(name)
	if err != nil {
		return 0, err
	}
	cnt := 0
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			cnt++
		}
	}
	return cnt, nil
}

// RowHasMissing reports whether any cell of row i is missing.
func (d *Dataset) RowHasMissing(i int) bool {
	for _, name := range d.df.Names() {
		if d.df.Col(name).Elem(i).IsNA() {
			return true
		}
	}
	return false
}

// Cell returns the export text of a cell; ok is false when the cell is missing.
func (d *Dataset) Cell(row int, name string) (string, bool, error) {
	s, err := d.Column(name)
	if err != nil {
		return "", false, err
	}
	if row < 0 || row >= s.Len() {
		return "", false, fmt.Errorf("row %d out of range [0,%d)", row, s.Len())
	}
	e := s.Elem(row)
	if e.IsNA() {
		return "", false, nil
	}
	return cellText(s.Type(), e), true, nil
}

// Rows returns a dataset holding the given rows, in the given order.
func (d *Dataset) Rows(idx []int) (*Dataset, error) {
	names := d.df.Names()
	cols := make([]series.Series, len(names))
	for c, name := range names {
		src := d.df.Col(name)
		vals := make([]string, len(idx))
		for j, i := range idx {
			if i < 0 || i >= src.Len() {
				return nil, fmt.Errorf("row %d out of range [0,%d)", i, src.Len())
			}
			e := src.Elem(i)
			if e.IsNA() {
				vals[j] = naToken
				continue
			}
			vals[j] = cellText(src.Type(), e)
		}
		cols[c] = series.New(vals, src.Type(), name)
	}
	return FromFrame(d.Name, dataframe.New(cols...))
}

// WithNames returns a dataset whose columns are renamed positionally.
func (d *Dataset) WithNames(names []string) (*Dataset, error) {
	old := d.df.Names()
	if len(names) != len(old) {
		return nil, fmt.Errorf("rename: got %d names for %d columns", len(names), len(old))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("rename: duplicate column name %q", n)
		}
		seen[n] = struct{}{}
	}
	cols := make([]series.Series, len(old))
	for i, name := range old {
		s := d.df.Col(name).Copy()
		s.Name = names[i]
		cols[i] = s
	}
	return FromFrame(d.Name, dataframe.New(cols...))
}

// WithFloatColumn returns a dataset where the named column is replaced by a
// float column holding vals. Column position is preserved.
func (d *Dataset) WithFloatColumn(name string, vals []float64) (*Dataset, error) {
	if !d.HasColumn(name) {
		return nil, &ColumnNotFoundError{Column: name, Available: d.Names()}
	}
	if len(vals) != d.Nrow() {
		return nil, fmt.Errorf("replace %q: got %d values for %d rows", name, len(vals), d.Nrow())
	}
	text := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			text[i] = naToken
			continue
		}
		text[i] = FormatFloat(v)
	}
	replacement := series.New(text, series.Float, name)
	names := d.df.Names()
	cols := make([]series.Series, len(names))
	for i, n := range names {
		if n == name {
			cols[i] = replacement
			continue
		}
		cols[i] = d.df.Col(n)
	}
	return FromFrame(d.Name, dataframe.New(cols...))
}

// Records returns the header followed by every row, with missing cells empty.
func (d *Dataset) Records() [][]string {
	return d.records(d.Nrow())
}

// Head returns the header followed by at most n rows.
func (d *Dataset) Head(n int) [][]string {
	if n > d.Nrow() {
		n = d.Nrow()
	}
	if n < 0 {
		n = 0
	}
	return d.records(n)
}

func (d *Dataset) records(n int) [][]string {
	names := d.df.Names()
	out := make([][]string, 0, n+1)
	out = append(out, append([]string(nil), names...))
	cols := make([]series.Series, len(names))
	for c, name := range names {
		cols[c] = d.df.Col(name)
	}
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for c, s := range cols {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			row[c] = cellText(s.Type(), e)
		}
		out = append(out, row)
	}
	return out
}

func cellText(t series.Type, e series.Element) string {
	switch t {
	case series.Float:
		return FormatFloat(e.Float())
	case series.Int:
		if v, err := e.Int(); err == nil {
			return strconv.Itoa(v)
		}
	}
	return e.String()
}

// FormatFloat renders v in shortest round-trip form; integral values keep one
// decimal place so they read back as floats.
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
