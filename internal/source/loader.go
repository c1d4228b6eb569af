package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
)

// Loader reads one file format into a dataset.
type Loader interface {
	CanLoad(filename string) bool
	Load(name string, r io.Reader, opt dataset.LoadOptions) (*dataset.Dataset, error)
}

var registry []Loader

// Register adds a loader; earlier registrations take precedence.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(xlsxLoader{})
	Register(delimitedLoader{})
}

// Load opens src and parses it with the loader matching its file extension.
// Unrecognized extensions are read as comma-separated text.
func Load(src DataSource, opt dataset.LoadOptions) (*dataset.Dataset, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	name := filename(src)
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(name)
	}
	for _, l := range registry {
		if l.CanLoad(name) {
			return l.Load(src.Label(), rc, opt)
		}
	}
	return delimitedLoader{}.Load(src.Label(), rc, opt)
}

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedLoader) Load(name string, r io.Reader, opt dataset.LoadOptions) (*dataset.Dataset, error) {
	return dataset.ReadCSV(name, r, opt)
}

// sniffDelimiter goes by file name only so the stream is read once.
func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(name string, r io.Reader, opt dataset.LoadOptions) (*dataset.Dataset, error) {
	ds, err := dataset.ReadXLSX(name, r, opt)
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}
	return ds, nil
}
