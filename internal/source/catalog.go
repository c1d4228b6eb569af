package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/utils"
	"github.com/google/uuid"
)

const catalogFileName = "catalog.json"

// Entry is a user file registered under a sample name.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	AddedAt     time.Time `json:"added_at"`
}

// Catalog is the set of user samples persisted in catalog.json.
type Catalog struct {
	Entries   map[string]*Entry `json:"entries"` // keyed by name
	UpdatedAt time.Time         `json:"updated_at"`

	dir string
}

// OpenCatalog loads the catalog stored in dir. A missing file yields an empty catalog.
func OpenCatalog(dir string) (*Catalog, error) {
	c := &Catalog{Entries: make(map[string]*Entry), dir: dir}
	b, err := os.ReadFile(filepath.Join(dir, catalogFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Entries == nil {
		c.Entries = make(map[string]*Entry)
	}
	c.dir = dir
	return c, nil
}

// Dir returns the directory holding catalog.json.
func (c *Catalog) Dir() string { return c.dir }

// Save writes catalog.json atomically.
func (c *Catalog) Save() error {
	if c.dir == "" {
		return errors.New("catalog directory not set")
	}
	if err := utils.EnsureDir(c.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	c.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(c)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(c.dir, catalogFileName), data)
}

// Add registers path under name after checking that it loads as a dataset.
// An empty name defaults to the file's base name without extension.
func (c *Catalog) Add(path, name, description string) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		base := filepath.Base(abs)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if _, ok := BundledSamples[name]; ok {
		return nil, fmt.Errorf("%q is a bundled sample name", name)
	}
	if name == "-" {
		return nil, errors.New(`"-" is reserved for stdin`)
	}
	if _, ok := c.Entries[name]; ok {
		return nil, fmt.Errorf("sample %q already exists", name)
	}
	ds, err := Load(NamedSample{Name: name, Path: abs}, dataset.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("load sample: %w", err)
	}
	e := &Entry{
		ID:          uuid.NewString(),
		Name:        name,
		Path:        abs,
		Description: strings.TrimSpace(description),
		Rows:        ds.Nrow(),
		Columns:     ds.Ncol(),
		AddedAt:     time.Now(),
	}
	c.Entries[name] = e
	c.UpdatedAt = time.Now()
	return e, nil
}

// Remove drops a catalogued sample. The underlying file is left alone.
func (c *Catalog) Remove(name string) error {
	if _, ok := c.Entries[name]; !ok {
		return fmt.Errorf("sample %q not found", name)
	}
	delete(c.Entries, name)
	c.UpdatedAt = time.Now()
	return nil
}

// Lookup returns the catalogued entry for name.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	e, ok := c.Entries[name]
	return e, ok
}

// Listing is one row of List output.
type Listing struct {
	Name        string
	Bundled     bool
	Path        string
	Description string
}

// List returns bundled samples followed by catalogued ones, each sorted by name.
func (c *Catalog) List() []Listing {
	var out []Listing
	bundledNames := make([]string, 0, len(BundledSamples))
	for n := range BundledSamples {
		bundledNames = append(bundledNames, n)
	}
	sort.Strings(bundledNames)
	for _, n := range bundledNames {
		out = append(out, Listing{Name: n, Bundled: true, Path: BundledSamples[n], Description: "bundled"})
	}
	names := make([]string, 0, len(c.Entries))
	for n := range c.Entries {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		e := c.Entries[n]
		out = append(out, Listing{Name: e.Name, Path: e.Path, Description: e.Description})
	}
	return out
}
