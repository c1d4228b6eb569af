package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tidycsv/internal/utils"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := utils.SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := utils.SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/.tidycsv/samples")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".tidycsv", "samples"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	got, _ = utils.ExpandHome("/abs/path")
	if got != "/abs/path" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestCleanedName(t *testing.T) {
	cases := []struct {
		source, method, ext, want string
	}{
		{"data/movies.csv", "mean", ".csv", "movies_cleaned_mean.csv"},
		{"my sales.xlsx", "drop", ".xlsx", "my_sales_cleaned_drop.xlsx"},
		{"-", "median", ".csv", "dataset_cleaned_median.csv"},
		{"sample01", "mean", ".csv", "sample01_cleaned_mean.csv"},
	}
	for _, c := range cases {
		if got := utils.CleanedName(c.source, c.method, c.ext); got != c.want {
			t.Errorf("CleanedName(%q) = %q, want %q", c.source, got, c.want)
		}
	}
}
