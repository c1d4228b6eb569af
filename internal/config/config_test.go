package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultImputation != "mean" || c.DefaultMode != "chain" {
		t.Fatalf("unexpected cleaning defaults: %+v", c)
	}
	if c.HeadRows != 5 || c.ChartBins != 20 {
		t.Fatalf("unexpected defaults: head=%d bins=%d", c.HeadRows, c.ChartBins)
	}
	if want := filepath.Join(home, ".tidycsv", "samples"); c.SamplesDir != want {
		t.Fatalf("samples_dir = %q, want %q", c.SamplesDir, want)
	}
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range map[string]string{
		"default_imputation": "Median",
		"head_rows":          "12",
		"chart_format":       "svg",
	} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".tidycsv", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again.DefaultImputation != "median" || again.HeadRows != 12 || again.ChartFormat != "svg" {
		t.Fatalf("reloaded config mismatch: %+v", again)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.yaml")
	if err := os.WriteFile(path, []byte("default_mode: source\nhead_rows: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIDYCSV_CHART_BINS", "7")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.DefaultMode != "source" {
		t.Fatalf("default_mode = %q", c.DefaultMode)
	}
	if c.HeadRows != MaxHeadRows {
		t.Fatalf("head_rows not clamped: %d", c.HeadRows)
	}
	if c.ChartBins != 7 {
		t.Fatalf("env override ignored: %d", c.ChartBins)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	c := &Global{}
	bad := map[string]string{
		"default_imputation": "mode",
		"default_mode":       "replay",
		"head_rows":          "31",
		"chart_bins":         "0",
		"chart_width_in":     "-1",
		"log_format":         "xml",
		"nope":               "x",
	}
	for k, v := range bad {
		if err := c.Set(k, v); err == nil {
			t.Errorf("Set(%q, %q): expected error", k, v)
		}
	}
}

func TestGetRoundTripsKeys(t *testing.T) {
	c := &Global{HeadRows: 8, ChartWidthIn: 6.5, LogLevel: "info"}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Errorf("Get(%q): %v", k, err)
		}
	}
	if v, _ := c.Get("chart_width_in"); v != "6.5" {
		t.Fatalf("chart_width_in = %q", v)
	}
}

func TestDefaultHasSamplesDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c := Default()
	if want := filepath.Join(home, ".tidycsv", "samples"); c.SamplesDir != want {
		t.Fatalf("samples_dir = %q, want %q", c.SamplesDir, want)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *c {
		t.Fatalf("defaults differ from an empty load:\n%+v\n%+v", c, loaded)
	}
}
