package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundledSamples(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		columns int
		first   string
	}{
		{"sample01", 30, 7, "movie id"},
		{"sample02", 30, 4, "user id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(NamedSample{Name: tt.name}, dataset.LoadOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.rows, ds.Nrow())
			assert.Equal(t, tt.columns, ds.Ncol())
			assert.Equal(t, tt.first, ds.Names()[0])
			assert.Equal(t, tt.name, ds.Name)
		})
	}
}

func TestLoadUploadedStream(t *testing.T) {
	ds, err := Load(UploadedStream{Filename: "scores.tsv", Data: []byte("a\tb\n1\t2\n")}, dataset.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	_, err = Load(UploadedStream{Filename: "broken.csv", Data: []byte("a,b\n1\n")}, dataset.LoadOptions{})
	var pe *dataset.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o644))

	src, err := Resolve("sample02", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, NamedSample{Name: "sample02"}, src)

	src, err = Resolve(path, nil, nil)
	require.NoError(t, err)
	up, ok := src.(UploadedStream)
	require.True(t, ok)
	assert.Equal(t, "my data.csv", up.Filename)

	src, err = Resolve("-", nil, strings.NewReader("k\nv\n"))
	require.NoError(t, err)
	ds, err := Load(src, dataset.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Nrow())

	_, err = Resolve(filepath.Join(dir, "nope.csv"), nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogLifecycle(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "weather.csv")
	require.NoError(t, os.WriteFile(data, []byte("city,temp\nLisbon,21\nPorto,\n"), 0o644))

	cat, err := OpenCatalog(filepath.Join(dir, "store"))
	require.NoError(t, err)
	assert.Empty(t, cat.Entries)

	e, err := cat.Add(data, "", "daily temperatures")
	require.NoError(t, err)
	assert.Equal(t, "weather", e.Name)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 2, e.Rows)
	assert.Equal(t, 2, e.Columns)
	require.NoError(t, cat.Save())

	_, err = cat.Add(data, "weather", "")
	assert.Error(t, err, "duplicate names are rejected")
	_, err = cat.Add(data, "sample01", "")
	assert.Error(t, err, "bundled names are reserved")

	reopened, err := OpenCatalog(filepath.Join(dir, "store"))
	require.NoError(t, err)
	got, ok := reopened.Lookup("weather")
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)

	src, err := Resolve("weather", reopened, nil)
	require.NoError(t, err)
	ds, err := Load(src, dataset.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "weather", ds.Name)

	list := reopened.List()
	require.Len(t, list, 3)
	assert.Equal(t, "sample01", list[0].Name)
	assert.True(t, list[0].Bundled)
	assert.Equal(t, "weather", list[2].Name)

	require.NoError(t, reopened.Remove("weather"))
	assert.Error(t, reopened.Remove("weather"))
	require.NoError(t, reopened.Save())
	again, err := OpenCatalog(filepath.Join(dir, "store"))
	require.NoError(t, err)
	assert.Empty(t, again.Entries)
}

func TestCatalogAddRejectsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte(""), 0o644))

	cat, err := OpenCatalog(dir)
	require.NoError(t, err)
	_, err = cat.Add(bad, "", "")
	assert.Error(t, err)
	assert.Empty(t, cat.Entries)
}
