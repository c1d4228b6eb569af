package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/cleaning"
	"github.com/KaramelBytes/tidycsv/internal/export"
	"github.com/KaramelBytes/tidycsv/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanOutliers   string
	cleanNormalize  bool
	cleanDropNulls  bool
	cleanImpute     string
	cleanMode       string
	cleanOutputPath string
	cleanExport     bool
	cleanBase64     bool
	cleanDataURI    bool
	cleanLink       bool
	cleanSheetOut   string
	cleanDelimiter  string
	cleanSheet      string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <source>",
	Short: "Remove outliers, normalize column names and resolve missing values",
	Long: `Run the cleaning pipeline on a dataset:

  1. --outliers <column>   keep rows strictly inside the 1.5*IQR fence of a numeric column
  2. --normalize-columns   replace spaces in column names with underscores
  3. --drop-nulls          drop rows with any missing value, otherwise
     --impute mean|median  fill missing numeric cells with the column mean or median

With --mode source the missing-data step starts again from the loaded dataset,
discarding steps 1 and 2. Step failures are reported and the run continues.

` + sourceHelp(),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt := cleaning.Options{
			RemoveOutlierColumn:       cleanOutliers,
			NormalizeColumnWhitespace: cleanNormalize,
			DropNullRows:              cleanDropNulls,
		}
		impute := c.DefaultImputation
		if cmd.Flags().Changed("impute") {
			impute = cleanImpute
			if cleanDropNulls {
				fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: --impute is ignored with --drop-nulls")
			}
		}
		method, err := cleaning.ParseMethod(impute)
		if err != nil {
			return err
		}
		opt.Imputation = method
		mode := c.DefaultMode
		if cmd.Flags().Changed("mode") {
			mode = cleanMode
		}
		if opt.Mode, err = cleaning.ParseMode(mode); err != nil {
			return err
		}
		encodings := 0
		for _, on := range []bool{cleanBase64, cleanDataURI, cleanLink} {
			if on {
				encodings++
			}
		}
		if encodings > 1 {
			return fmt.Errorf("use only one of --base64, --data-uri or --link")
		}

		ds, err := loadDataset(cmd, args[0], cleanDelimiter, cleanSheet)
		if err != nil {
			return err
		}
		res, err := cleaning.Clean(ds, opt)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.ErrOrStderr(), res)
		if opt.Mode == cleaning.ModeSource && (opt.RemoveOutlierColumn != "" || opt.NormalizeColumnWhitespace) {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: --mode source discards the outlier and column-name results")
		}

		out := cleanOutputPath
		if out == "" && cleanExport {
			dir, err := utils.ExpandHome(c.ExportDir)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = "."
			}
			if err := utils.EnsureDir(dir); err != nil {
				return fmt.Errorf("ensure export dir: %w", err)
			}
			out = filepath.Join(dir, utils.CleanedName(ds.Name, res.Method, ".csv"))
		}
		if out != "" {
			if err := writeCleaned(out, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote cleaned dataset to %s (%d rows, %d columns)\n", out, res.Dataset.Nrow(), res.Dataset.Ncol())
			return nil
		}

		w := cmd.OutOrStdout()
		switch {
		case cleanBase64:
			fmt.Fprintln(w, res.Encoded)
		case cleanDataURI:
			fmt.Fprintln(w, export.DataURI(res.Export))
		case cleanLink:
			fmt.Fprintln(w, export.DownloadLink(res.Export, ""))
		default:
			_, err = w.Write(res.Export)
			return err
		}
		return nil
	},
}

func writeCleaned(path string, res *cleaning.Result) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := export.WriteXLSX(f, res.Dataset, cleanSheetOut); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if err := utils.SafeWriteFile(path, res.Export); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printDiagnostics(w io.Writer, res *cleaning.Result) {
	for _, d := range res.Diagnostics {
		switch d.Status {
		case cleaning.StatusOK:
			fmt.Fprintf(w, "✓ %s: %s\n", d.Step, d.Message)
		case cleaning.StatusFailed:
			fmt.Fprintf(w, "⚠ Warning: %s: %s\n", d.Step, d.Message)
		default:
			fmt.Fprintf(w, "- %s: %s\n", d.Step, d.Message)
		}
	}
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanOutliers, "outliers", "", "remove IQR outliers of this numeric column")
	cleanCmd.Flags().BoolVar(&cleanNormalize, "normalize-columns", false, "replace spaces in column names with underscores")
	cleanCmd.Flags().BoolVar(&cleanDropNulls, "drop-nulls", false, "drop rows with missing values instead of imputing")
	cleanCmd.Flags().StringVar(&cleanImpute, "impute", "mean", "imputation for numeric columns: mean|median (default from config)")
	cleanCmd.Flags().StringVar(&cleanMode, "mode", "chain", "missing-data input: chain|source (default from config)")
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output", "o", "", "write the cleaned dataset to this .csv or .xlsx file")
	cleanCmd.Flags().BoolVar(&cleanExport, "export", false, "write <source>_cleaned_<method>.csv into export_dir")
	cleanCmd.Flags().StringVar(&cleanSheetOut, "sheet-out", "data", "XLSX output: sheet name")
	cleanCmd.Flags().BoolVar(&cleanBase64, "base64", false, "print the cleaned CSV base64-encoded")
	cleanCmd.Flags().BoolVar(&cleanDataURI, "data-uri", false, "print the cleaned CSV as a data URI")
	cleanCmd.Flags().BoolVar(&cleanLink, "link", false, "print an HTML download link for the cleaned CSV")
	addSourceFlags(cleanCmd, &cleanDelimiter, &cleanSheet)
}
