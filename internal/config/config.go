package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// MinHeadRows and MaxHeadRows bound the preview row count.
	MinHeadRows = 5
	MaxHeadRows = 30
)

// Global configuration structure.
type Global struct {
	SamplesDir        string `mapstructure:"samples_dir" yaml:"samples_dir"`
	ExportDir         string `mapstructure:"export_dir" yaml:"export_dir"`
	DefaultImputation string `mapstructure:"default_imputation" yaml:"default_imputation"`
	DefaultMode       string `mapstructure:"default_mode" yaml:"default_mode"`
	HeadRows          int    `mapstructure:"head_rows" yaml:"head_rows"`

	// Chart rendering
	ChartBins     int     `mapstructure:"chart_bins" yaml:"chart_bins"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"samples_dir", "export_dir", "default_imputation", "default_mode", "head_rows",
	"chart_bins", "chart_width_in", "chart_height_in", "chart_format",
	"log_level", "log_format",
}

// Dir returns ~/.tidycsv.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tidycsv"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tidycsv/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIDYCSV")
	v.AutomaticEnv()

	v.SetDefault("samples_dir", "")
	v.SetDefault("export_dir", "")
	v.SetDefault("default_imputation", "mean")
	v.SetDefault("default_mode", "chain")
	v.SetDefault("head_rows", MinHeadRows)
	v.SetDefault("chart_bins", 20)
	v.SetDefault("chart_width_in", 6.0)
	v.SetDefault("chart_height_in", 4.0)
	v.SetDefault("chart_format", "png")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SamplesDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.SamplesDir = filepath.Join(dir, "samples")
	}
	c.HeadRows = ClampHeadRows(c.HeadRows)
	return &c, nil
}

// Default returns the built-in configuration, used when Load fails.
func Default() *Global {
	samples := filepath.Join(os.TempDir(), "tidycsv", "samples")
	if dir, err := Dir(); err == nil {
		samples = filepath.Join(dir, "samples")
	}
	return &Global{
		SamplesDir:        samples,
		DefaultImputation: "mean",
		DefaultMode:       "chain",
		HeadRows:          MinHeadRows,
		ChartBins:         20,
		ChartWidthIn:      6,
		ChartHeightIn:     4,
		ChartFormat:       "png",
		LogLevel:          "warn",
		LogFormat:         "text",
	}
}

// ClampHeadRows bounds n to [MinHeadRows, MaxHeadRows].
func ClampHeadRows(n int) int {
	if n < MinHeadRows {
		return MinHeadRows
	}
	if n > MaxHeadRows {
		return MaxHeadRows
	}
	return n
}

// Get returns the string form of a key's value.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "samples_dir":
		return c.SamplesDir, nil
	case "export_dir":
		return c.ExportDir, nil
	case "default_imputation":
		return c.DefaultImputation, nil
	case "default_mode":
		return c.DefaultMode, nil
	case "head_rows":
		return strconv.Itoa(c.HeadRows), nil
	case "chart_bins":
		return strconv.Itoa(c.ChartBins), nil
	case "chart_width_in":
		return strconv.FormatFloat(c.ChartWidthIn, 'g', -1, 64), nil
	case "chart_height_in":
		return strconv.FormatFloat(c.ChartHeightIn, 'g', -1, 64), nil
	case "chart_format":
		return c.ChartFormat, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	val = strings.TrimSpace(val)
	switch key {
	case "samples_dir":
		c.SamplesDir = val
	case "export_dir":
		c.ExportDir = val
	case "default_imputation":
		switch strings.ToLower(val) {
		case "mean", "median":
			c.DefaultImputation = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid default_imputation: %s (use mean or median)", val)
		}
	case "default_mode":
		switch strings.ToLower(val) {
		case "chain", "source":
			c.DefaultMode = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid default_mode: %s (use chain or source)", val)
		}
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < MinHeadRows || i > MaxHeadRows {
			return fmt.Errorf("invalid head_rows: %v (use %d-%d)", val, MinHeadRows, MaxHeadRows)
		}
		c.HeadRows = i
	case "chart_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for chart_bins: %v", val)
		}
		c.ChartBins = i
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid size for %s: %v", key, val)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	case "chart_format":
		switch strings.ToLower(val) {
		case "png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps":
			c.ChartFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid chart_format: %s (use png, svg, pdf, jpg, tif or eps)", val)
		}
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
