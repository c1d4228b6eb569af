// Package chart renders single-column charts of a dataset with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Kind selects the chart type.
type Kind string

const (
	Histogram Kind = "hist"
	Bar       Kind = "bar"
	Line      Kind = "line"
)

// Kinds lists the supported chart kinds.
var Kinds = []Kind{Histogram, Bar, Line}

// ParseKind accepts hist|bar|line in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Histogram, "histogram":
		return Histogram, nil
	case Bar:
		return Bar, nil
	case Line:
		return Line, nil
	default:
		return "", fmt.Errorf("invalid chart kind %q (use hist, bar or line)", s)
	}
}

// Options controls chart size and encoding.
type Options struct {
	Bins     int
	WidthIn  float64
	HeightIn float64
	// Format is any image format gonum/plot can write: png, svg, pdf, jpg, tif, eps.
	Format string
}

// DefaultOptions returns a 6x4 inch PNG with 20 histogram bins.
func DefaultOptions() Options {
	return Options{Bins: 20, WidthIn: 6, HeightIn: 4, Format: "png"}
}

// Render draws column of ds as a chart of the given kind and returns the encoded
// image. Missing values are left out. Non-numeric columns yield a
// *dataset.TypeMismatchError.
func Render(ds *dataset.Dataset, column string, kind Kind, opt Options) ([]byte, error) {
	def := DefaultOptions()
	if opt.Bins <= 0 {
		opt.Bins = def.Bins
	}
	if opt.WidthIn <= 0 {
		opt.WidthIn = def.WidthIn
	}
	if opt.HeightIn <= 0 {
		opt.HeightIn = def.HeightIn
	}
	if opt.Format == "" {
		opt.Format = def.Format
	}
	k, err := ds.Kind(column)
	if err != nil {
		return nil, err
	}
	if k != dataset.KindNumeric {
		return nil, &dataset.TypeMismatchError{Column: column, Kind: k, Op: string(kind) + " chart"}
	}
	vals, missing, err := ds.Floats(column)
	if err != nil {
		return nil, err
	}
	var present plotter.Values
	var pts plotter.XYs
	for i, v := range vals {
		if missing[i] {
			continue
		}
		present = append(present, v)
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("column %q has no values to plot", column)
	}

	p := plot.New()
	p.Title.Text = column
	switch kind {
	case Histogram:
		h, err := plotter.NewHist(present, opt.Bins)
		if err != nil {
			return nil, fmt.Errorf("histogram: %w", err)
		}
		p.Add(h)
		p.X.Label.Text = column
		p.Y.Label.Text = "count"
	case Bar:
		w := vg.Length(opt.WidthIn) * vg.Inch / vg.Length(len(present)+1) * 0.8
		b, err := plotter.NewBarChart(present, w)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		b.LineStyle.Width = vg.Length(0)
		p.Add(b)
		p.X.Label.Text = "row"
		p.Y.Label.Text = column
	case Line:
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line chart: %w", err)
		}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.X.Label.Text = "row"
		p.Y.Label.Text = column
	default:
		return nil, fmt.Errorf("invalid chart kind %q", kind)
	}

	wt, err := p.WriterTo(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, strings.ToLower(opt.Format))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opt.Format, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	return buf.Bytes(), nil
}
