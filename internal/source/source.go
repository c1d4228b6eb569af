// Package source resolves where a dataset comes from: a bundled sample, a
// catalogued file or an uploaded stream.
package source

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed samples/*.csv
var bundled embed.FS

// BundledSamples maps the built-in sample names to their embedded files.
var BundledSamples = map[string]string{
	"sample01": "movies.csv",
	"sample02": "ratings.csv",
}

// DataSource is anything a dataset can be read from.
type DataSource interface {
	Label() string
	Open() (io.ReadCloser, error)
}

// NamedSample is a sample chosen by name. An empty Path means a bundled sample.
type NamedSample struct {
	Name string
	Path string
}

func (s NamedSample) Label() string { return s.Name }

// Filename is the file the sample reads from; its extension picks the loader.
func (s NamedSample) Filename() string {
	if s.Path != "" {
		return filepath.Base(s.Path)
	}
	return BundledSamples[s.Name]
}

func (s NamedSample) Open() (io.ReadCloser, error) {
	if s.Path != "" {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open sample %q: %w", s.Name, err)
		}
		return f, nil
	}
	file, ok := BundledSamples[s.Name]
	if !ok {
		return nil, fmt.Errorf("unknown bundled sample %q", s.Name)
	}
	return bundled.Open("samples/" + file)
}

// UploadedStream is a dataset supplied as raw bytes, such as a file upload or stdin.
type UploadedStream struct {
	Filename string
	Data     []byte
}

func (u UploadedStream) Label() string { return u.Filename }

func (u UploadedStream) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.Data)), nil
}

// ErrNotFound is returned by Resolve when an argument names neither a sample nor a file.
var ErrNotFound = errors.New("no sample or file with that name")

// Resolve turns a command-line argument into a DataSource. Sample names win over
// file paths; "-" reads everything from stdin. cat may be nil.
func Resolve(arg string, cat *Catalog, stdin io.Reader) (DataSource, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errors.New("source is required")
	}
	if _, ok := BundledSamples[arg]; ok {
		return NamedSample{Name: arg}, nil
	}
	if cat != nil {
		if e, ok := cat.Lookup(arg); ok {
			return NamedSample{Name: e.Name, Path: e.Path}, nil
		}
	}
	if arg == "-" {
		if stdin == nil {
			return nil, errors.New("stdin is not available")
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return UploadedStream{Filename: "stdin.csv", Data: b}, nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UploadedStream{Filename: filepath.Base(arg), Data: b}, nil
}

func filename(src DataSource) string {
	if f, ok := src.(interface{ Filename() string }); ok && f.Filename() != "" {
		return f.Filename()
	}
	if u, ok := src.(UploadedStream); ok {
		return u.Filename
	}
	return src.Label()
}
