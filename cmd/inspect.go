package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/tidycsv/internal/config"
	"github.com/KaramelBytes/tidycsv/internal/profile"
	"github.com/spf13/cobra"
)

var (
	inspOutputPath string
	inspRows       int
	inspCorr       bool
	inspTopValues  int
	inspDelimiter  string
	inspSheet      string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <source>",
	Short: "Show shape, types, statistics and missing data of a dataset",
	Long:  "Profile a dataset: head rows, row and column counts, column names, descriptive statistics, count of types and the table of columns with missing data.\n\n" + sourceHelp(),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd, args[0], inspDelimiter, inspSheet)
		if err != nil {
			return err
		}
		opt := profile.DefaultOptions()
		opt.HeadRows = currentConfig().HeadRows
		if cmd.Flags().Changed("rows") {
			if inspRows < cfgpkg.MinHeadRows || inspRows > cfgpkg.MaxHeadRows {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: --rows %d clamped to %d-%d\n", inspRows, cfgpkg.MinHeadRows, cfgpkg.MaxHeadRows)
			}
			opt.HeadRows = cfgpkg.ClampHeadRows(inspRows)
		}
		if inspTopValues > 0 {
			opt.TopValues = inspTopValues
		}
		opt.Correlations = inspCorr
		rep, err := profile.Build(ds, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if inspOutputPath != "" {
			if err := os.WriteFile(inspOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	inspectCmd.Flags().IntVarP(&inspRows, "rows", "n", 5, "number of head rows to show (5-30; default from config)")
	inspectCmd.Flags().BoolVar(&inspCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	inspectCmd.Flags().IntVar(&inspTopValues, "top", 3, "most frequent values listed per non-numeric column")
	addSourceFlags(inspectCmd, &inspDelimiter, &inspSheet)
}
