package cmd

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so bound variables and Changed
// state do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) (string, string) {
	t.Helper()
	out, errOut, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\nstderr: %s", args, err, errOut)
	}
	return out, errOut
}

// isolateHome points HOME at a temp dir so config and catalog stay per-test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func TestCLI_InspectSample(t *testing.T) {
	isolateHome(t)
	out, _ := runCmd(t, "inspect", "sample01", "--rows", "7")
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 30", "Columns: 7", "[STATISTICS]", "[MISSING DATA]", "budget musd"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
	head := out[strings.Index(out, "[HEAD]"):]
	if end := strings.Index(head, "\n\n"); end >= 0 {
		head = head[:end]
	}
	rows := 0
	for _, l := range strings.Split(head, "\n") {
		if strings.HasPrefix(l, "|") {
			rows++
		}
	}
	// header and separator lines
	if rows-2 != 7 {
		t.Fatalf("expected 7 head rows, got %d:\n%s", rows-2, head)
	}
}

func TestCLI_CleanDropWritesFile(t *testing.T) {
	home := isolateHome(t)
	outPath := filepath.Join(home, "movies_clean.csv")

	_, stderr := runCmd(t, "clean", "sample01", "--outliers", "budget musd", "--normalize-columns", "--drop-nulls", "-o", outPath)
	if !strings.Contains(stderr, "✓ outliers:") || !strings.Contains(stderr, "✓ drop-nulls:") {
		t.Fatalf("missing diagnostics:\n%s", stderr)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if lines[0] != "movie_id,title,genres,release_year,runtime_min,budget_musd,imdb_score" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if len(lines)-1 >= 30 {
		t.Fatalf("expected rows to be removed, got %d", len(lines)-1)
	}
	for _, l := range lines[1:] {
		if strings.Contains(l, ",,") || strings.HasSuffix(l, ",") {
			t.Fatalf("row with missing value survived: %s", l)
		}
	}
}

func TestCLI_CleanNonNumericOutlierColumnWarns(t *testing.T) {
	isolateHome(t)
	out, stderr := runCmd(t, "clean", "sample02", "--outliers", "movie id", "--outliers", "timestamp", "--impute", "median")
	if strings.Contains(stderr, "Warning") {
		t.Fatalf("numeric column should not warn:\n%s", stderr)
	}
	if !strings.HasPrefix(out, "user id,movie id,rating,timestamp\n") {
		t.Fatalf("expected csv on stdout, got:\n%s", out)
	}

	_, stderr = runCmd(t, "clean", "sample01", "--outliers", "title")
	if !strings.Contains(stderr, "⚠ Warning: outliers: impossible on this column, select another") {
		t.Fatalf("expected outlier warning:\n%s", stderr)
	}
}

func TestCLI_CleanBase64MatchesCSV(t *testing.T) {
	isolateHome(t)
	raw, _ := runCmd(t, "clean", "sample02")
	enc, _ := runCmd(t, "clean", "sample02", "--base64")
	dec, err := base64.StdEncoding.DecodeString(strings.TrimSpace(enc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(dec) != raw {
		t.Fatalf("base64 payload differs from csv output")
	}
	link, _ := runCmd(t, "clean", "sample02", "--link")
	if !strings.HasPrefix(link, `<a href="data:file/csv;base64,`) {
		t.Fatalf("unexpected link: %s", link)
	}
	if _, _, err := execute(t, "clean", "sample02", "--base64", "--link"); err == nil {
		t.Fatal("expected error for conflicting encodings")
	}
}

func TestCLI_CleanExportAndXLSX(t *testing.T) {
	home := isolateHome(t)
	exportDir := filepath.Join(home, "exports")
	runCmd(t, "config", "set", "export_dir", exportDir)
	runCmd(t, "clean", "sample02", "--impute", "median", "--export")
	if _, err := os.Stat(filepath.Join(exportDir, "sample02_cleaned_median.csv")); err != nil {
		t.Fatalf("export not written: %v", err)
	}

	xlsx := filepath.Join(home, "ratings.xlsx")
	runCmd(t, "clean", "sample02", "--drop-nulls", "-o", xlsx)
	out, _ := runCmd(t, "inspect", xlsx)
	if !strings.Contains(out, "Rows: 27") {
		t.Fatalf("expected 27 rows after dropping nulls:\n%s", out)
	}
}

func TestCLI_SamplesLifecycle(t *testing.T) {
	home := isolateHome(t)
	data := filepath.Join(home, "prices.tsv")
	if err := os.WriteFile(data, []byte("item\tprice\napple\t1.2\npear\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCmd(t, "samples", "add", data, "--name", "prices", "--desc", "fruit prices")
	out, _ := runCmd(t, "samples", "list")
	if !strings.Contains(out, "- sample01:") || !strings.Contains(out, "- prices:") || !strings.Contains(out, "[2x2]") {
		t.Fatalf("unexpected list:\n%s", out)
	}
	out, _ = runCmd(t, "clean", "prices")
	if out != "item,price\napple,1.2\npear,1.2\n" {
		t.Fatalf("unexpected cleaned sample:\n%q", out)
	}
	runCmd(t, "samples", "remove", "prices")
	if _, _, err := execute(t, "inspect", "prices"); err == nil {
		t.Fatal("expected removed sample to be unresolvable")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	runCmd(t, "config", "set", "head_rows", "10")
	runCmd(t, "config", "set", "default_imputation", "median")
	out, _ := runCmd(t, "config", "show")
	if !strings.Contains(out, "head_rows: 10") || !strings.Contains(out, "default_imputation: median") {
		t.Fatalf("unexpected config:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".tidycsv", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, _, err := execute(t, "config", "set", "head_rows", "100"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCLI_Chart(t *testing.T) {
	home := isolateHome(t)
	png := filepath.Join(home, "ratings.png")
	runCmd(t, "chart", "sample02", "--column", "rating", "--kind", "hist", "-o", png)
	b, err := os.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatal("expected png image")
	}
	svg := filepath.Join(home, "ratings.svg")
	runCmd(t, "chart", "sample02", "-c", "rating", "-k", "line", "-o", svg)
	if b, _ := os.ReadFile(svg); !strings.Contains(string(b), "<svg") {
		t.Fatal("expected svg image")
	}
	_, _, err = execute(t, "chart", "sample01", "--column", "title")
	if err == nil || !strings.Contains(err.Error(), "impossible on this column, select another") {
		t.Fatalf("expected impossible-column error, got %v", err)
	}
}

func TestCLI_UnknownSource(t *testing.T) {
	isolateHome(t)
	if _, _, err := execute(t, "inspect", "does-not-exist.csv"); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCLI_SamplesWithUnreadableConfig(t *testing.T) {
	home := isolateHome(t)
	bad := filepath.Join(home, "bad.yaml")
	if err := os.WriteFile(bad, []byte("head_rows: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data := filepath.Join(home, "grades.csv")
	if err := os.WriteFile(data, []byte("name,grade\nana,9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runCmd(t, "--config", bad, "samples", "add", data)
	if _, err := os.Stat(filepath.Join(home, ".tidycsv", "samples", "catalog.json")); err != nil {
		t.Fatalf("catalog not saved under the default samples dir: %v", err)
	}
	out, _ := runCmd(t, "--config", bad, "samples", "list")
	if !strings.Contains(out, "- grades:") {
		t.Fatalf("added sample missing:\n%s", out)
	}
}
