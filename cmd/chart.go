package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/chart"
	"github.com/KaramelBytes/tidycsv/internal/cleaning"
	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	chartColumn     string
	chartKind       string
	chartOutputPath string
	chartBins       int
	chartFormat     string
	chartWidth      float64
	chartHeight     float64
	chartDelimiter  string
	chartSheet      string
)

var chartCmd = &cobra.Command{
	Use:   "chart <source>",
	Short: "Draw a histogram, bar or line chart of one column",
	Long:  "Render a chart of a numeric column to an image file.\n\n" + sourceHelp(),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(chartKind)
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd, args[0], chartDelimiter, chartSheet)
		if err != nil {
			return err
		}
		column := chartColumn
		if column == "" {
			column = ds.Names()[0]
		}
		c := currentConfig()
		opt := chart.Options{Bins: c.ChartBins, WidthIn: c.ChartWidthIn, HeightIn: c.ChartHeightIn, Format: c.ChartFormat}
		if cmd.Flags().Changed("bins") {
			opt.Bins = chartBins
		}
		if cmd.Flags().Changed("width") {
			opt.WidthIn = chartWidth
		}
		if cmd.Flags().Changed("height") {
			opt.HeightIn = chartHeight
		}
		out := chartOutputPath
		switch {
		case chartFormat != "":
			opt.Format = chartFormat
		case out != "" && filepath.Ext(out) != "":
			opt.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
		}
		if opt.Format == "" {
			opt.Format = "png"
		}
		img, err := chart.Render(ds, column, kind, opt)
		if err != nil {
			var tm *dataset.TypeMismatchError
			if errors.As(err, &tm) {
				return fmt.Errorf("%s: %w", cleaning.ImpossibleColumnMessage, err)
			}
			return err
		}
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(ds.Name), filepath.Ext(ds.Name))
			out = fmt.Sprintf("%s_%s_%s.%s", base, strings.ReplaceAll(column, " ", "_"), kind, opt.Format)
		}
		if err := os.WriteFile(out, img, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart of %q to %s\n", kind, column, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartColumn, "column", "c", "", "column to plot (default first column)")
	chartCmd.Flags().StringVarP(&chartKind, "kind", "k", "hist", "chart kind: hist|bar|line")
	chartCmd.Flags().StringVarP(&chartOutputPath, "output", "o", "", "image path (default <source>_<column>_<kind>.<format>)")
	chartCmd.Flags().IntVar(&chartBins, "bins", 20, "histogram bins (default from config)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "", "image format: png|svg|pdf|jpg|tif|eps (default from -o extension or config)")
	chartCmd.Flags().Float64Var(&chartWidth, "width", 6, "image width in inches (default from config)")
	chartCmd.Flags().Float64Var(&chartHeight, "height", 4, "image height in inches (default from config)")
	addSourceFlags(chartCmd, &chartDelimiter, &chartSheet)
}
