// Package profile summarizes a dataset: shape, schema, descriptive statistics,
// type counts, missing data and a head preview.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/stats"
)

// Options controls what a report includes.
type Options struct {
	// HeadRows is the number of preview rows.
	HeadRows int
	// TopValues limits the most frequent values listed per non-numeric column.
	TopValues int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for a dataset profile.
func DefaultOptions() Options {
	return Options{HeadRows: 5, TopValues: 3}
}

// Report is a markdown-friendly profile of a dataset.
type Report struct {
	Name       string
	Rows       int
	Cols       []ColumnSummary
	TypeCounts []TypeCount
	Head       [][]string // header row first
	Corr       *CorrMatrix
	Warnings   []string
}

// ColumnSummary captures the inferred type and statistics of one column.
type ColumnSummary struct {
	Name       string
	DType      string // int|float|string|bool
	Kind       dataset.Kind
	NonNull    int
	Missing    int
	MissingPct float64
	Unique     int
	// Describe is set for numeric columns with at least one value.
	Describe  *Describe
	TopValues []CategoryCount
}

// Describe holds the numeric summary statistics of a column.
type Describe struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

type CategoryCount struct {
	Value string
	Count int
}

// TypeCount is the number of columns sharing a storage type.
type TypeCount struct {
	DType string
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Build profiles ds.
func Build(ds *dataset.Dataset, opt Options) (*Report, error) {
	if opt.HeadRows <= 0 {
		opt.HeadRows = DefaultOptions().HeadRows
	}
	if opt.TopValues <= 0 {
		opt.TopValues = DefaultOptions().TopValues
	}
	rep := &Report{Name: ds.Name, Rows: ds.Nrow(), Head: ds.Head(opt.HeadRows)}
	typeCounts := map[string]int{}
	var numeric []string
	for _, name := range ds.Names() {
		cs, err := summarize(ds, name, opt)
		if err != nil {
			return nil, err
		}
		rep.Cols = append(rep.Cols, cs)
		typeCounts[cs.DType]++
		if cs.Kind == dataset.KindNumeric {
			numeric = append(numeric, name)
		}
		if ds.Nrow() > 0 && cs.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q has no values", name))
		}
	}
	for dt, n := range typeCounts {
		rep.TypeCounts = append(rep.TypeCounts, TypeCount{DType: dt, Count: n})
	}
	sort.Slice(rep.TypeCounts, func(i, j int) bool {
		if rep.TypeCounts[i].Count == rep.TypeCounts[j].Count {
			return rep.TypeCounts[i].DType < rep.TypeCounts[j].DType
		}
		return rep.TypeCounts[i].Count > rep.TypeCounts[j].Count
	})
	if len(numeric) == 0 {
		rep.Warnings = append(rep.Warnings, "no numeric columns; statistics omitted")
	}
	if opt.Correlations && len(numeric) >= 2 {
		corr, err := correlations(ds, numeric)
		if err != nil {
			return nil, err
		}
		rep.Corr = corr
	}
	return rep, nil
}

func summarize(ds *dataset.Dataset, name string, opt Options) (ColumnSummary, error) {
	cs := ColumnSummary{Name: name}
	var err error
	if cs.DType, err = ds.DType(name); err != nil {
		return cs, err
	}
	if cs.Kind, err = ds.Kind(name); err != nil {
		return cs, err
	}
	if cs.Missing, err = ds.MissingCount(name); err != nil {
		return cs, err
	}
	cs.NonNull = ds.Nrow() - cs.Missing
	if ds.Nrow() > 0 {
		cs.MissingPct = float64(cs.Missing) * 100 / float64(ds.Nrow())
	}
	cats := map[string]int{}
	for i := 0; i < ds.Nrow(); i++ {
		v, ok, err := ds.Cell(i, name)
		if err != nil {
			return cs, err
		}
		if ok {
			cats[v]++
		}
	}
	cs.Unique = len(cats)
	if cs.Kind == dataset.KindNumeric {
		vals, err := ds.NonMissing(name)
		if err != nil {
			return cs, err
		}
		if len(vals) > 0 {
			cs.Describe = describe(vals)
		}
		return cs, nil
	}
	for v, n := range cats {
		cs.TopValues = append(cs.TopValues, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(cs.TopValues, func(i, j int) bool {
		if cs.TopValues[i].Count == cs.TopValues[j].Count {
			return cs.TopValues[i].Value < cs.TopValues[j].Value
		}
		return cs.TopValues[i].Count > cs.TopValues[j].Count
	})
	if len(cs.TopValues) > opt.TopValues {
		cs.TopValues = cs.TopValues[:opt.TopValues]
	}
	return cs, nil
}

func describe(vals []float64) *Describe {
	sorted := stats.Sorted(vals)
	lo, hi := stats.MinMax(vals)
	return &Describe{
		Count: len(vals),
		Mean:  stats.Mean(vals),
		Std:   stats.Std(vals),
		Min:   lo,
		Q25:   stats.Quantile(sorted, 0.25),
		Q50:   stats.Quantile(sorted, 0.5),
		Q75:   stats.Quantile(sorted, 0.75),
		Max:   hi,
	}
}

// correlations uses pairwise-complete rows for each column pair.
func correlations(ds *dataset.Dataset, cols []string) (*CorrMatrix, error) {
	vals := make([][]float64, len(cols))
	miss := make([][]bool, len(cols))
	for i, c := range cols {
		v, m, err := ds.Floats(c)
		if err != nil {
			return nil, err
		}
		vals[i], miss[i] = v, m
	}
	m := &CorrMatrix{Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			var x, y []float64
			for r := range vals[i] {
				if miss[i][r] || miss[j][r] {
					continue
				}
				x = append(x, vals[i][r])
				y = append(y, vals[j][r])
			}
			r := stats.Pearson(x, y)
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m, nil
}

// Names returns the column names in order.
func (r *Report) Names() []string {
	out := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		out[i] = c.Name
	}
	return out
}

// MissingTable returns the columns that have at least one missing value.
func (r *Report) MissingTable() []ColumnSummary {
	var out []ColumnSummary
	for _, c := range r.Cols {
		if c.Missing > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Column returns the summary of the named column.
func (r *Report) Column(name string) (ColumnSummary, bool) {
	for _, c := range r.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Markdown renders the report as bracketed sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Column names: %s\n\n", strings.Join(r.Names(), ", ")))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.DType, c.NonNull, c.MissingPct))
		if len(c.TopValues) > 0 {
			b.WriteString(", top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	var described []ColumnSummary
	for _, c := range r.Cols {
		if c.Describe != nil {
			described = append(described, c)
		}
	}
	if len(described) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		header := []string{"stat"}
		for _, c := range described {
			header = append(header, safeName(c.Name))
		}
		rows := [][]string{}
		for _, stat := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
			row := []string{stat}
			for _, c := range described {
				row = append(row, statValue(c.Describe, stat))
			}
			rows = append(rows, row)
		}
		writeTable(&b, header, rows)
	}

	if len(r.TypeCounts) > 0 {
		b.WriteString("\n[COUNT OF TYPES]\n")
		for _, tc := range r.TypeCounts {
			b.WriteString(fmt.Sprintf("- %s: %d\n", tc.DType, tc.Count))
		}
	}

	b.WriteString("\n[MISSING DATA]\n")
	if missing := r.MissingTable(); len(missing) > 0 {
		rows := make([][]string, len(missing))
		for i, c := range missing {
			rows[i] = []string{safeName(c.Name), c.DType, fmt.Sprintf("%d", c.Missing), fmt.Sprintf("%.2f", c.MissingPct)}
		}
		writeTable(&b, []string{"column", "type", "NA #", "NA %"}, rows)
	} else {
		b.WriteString("(none)\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.IsNaN(r.Corr.Values[i][j]) {
					continue
				}
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Head) > 1 {
		b.WriteString("\n[HEAD]\n")
		header := make([]string, len(r.Head[0]))
		for i, h := range r.Head[0] {
			header[i] = safeName(h)
		}
		rows := make([][]string, 0, len(r.Head)-1)
		for _, row := range r.Head[1:] {
			cells := make([]string, len(row))
			for i, v := range row {
				if len(v) > 80 {
					v = v[:77] + "..."
				}
				cells[i] = safeVal(v)
			}
			rows = append(rows, cells)
		}
		writeTable(&b, header, rows)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statValue(d *Describe, stat string) string {
	var v float64
	switch stat {
	case "count":
		return fmt.Sprintf("%d", d.Count)
	case "mean":
		v = d.Mean
	case "std":
		v = d.Std
	case "min":
		v = d.Min
	case "25%":
		v = d.Q25
	case "50%":
		v = d.Q50
	case "75%":
		v = d.Q75
	case "max":
		v = d.Max
	}
	return fmt.Sprintf("%.6g", v)
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
