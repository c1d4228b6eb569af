package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/source"
	"github.com/KaramelBytes/tidycsv/internal/utils"
	"github.com/spf13/cobra"
)

// openCatalog opens the sample catalog under the configured samples_dir.
func openCatalog() (*source.Catalog, error) {
	dir, err := utils.ExpandHome(currentConfig().SamplesDir)
	if err != nil {
		return nil, err
	}
	return source.OpenCatalog(dir)
}

// loadDataset resolves arg to a sample, stdin or file and loads it.
func loadDataset(cmd *cobra.Command, arg, delimiter, sheet string) (*dataset.Dataset, error) {
	opt := dataset.LoadOptions{Sheet: sheet}
	d, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	opt.Delimiter = d
	cat, err := openCatalog()
	if err != nil {
		return nil, err
	}
	src, err := source.Resolve(arg, cat, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return source.Load(src, opt)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// addSourceFlags registers the loading flags shared by dataset commands.
func addSourceFlags(cmd *cobra.Command, delimiter, sheet *string) {
	cmd.Flags().StringVar(delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default by extension)")
	cmd.Flags().StringVar(sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
}

func sourceHelp() string {
	names := make([]string, 0, len(source.BundledSamples))
	for n := range source.BundledSamples {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Sprintf("<source> is a sample name (%s, or one added with 'samples add'), a file path, or '-' for stdin.", strings.Join(names, ", "))
}
