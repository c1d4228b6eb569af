package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	samplesName string
	samplesDesc string
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List, add or remove named sample datasets",
}

var samplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled and added samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, l := range cat.List() {
			if l.Bundled {
				fmt.Fprintf(out, "- %s: %s (bundled)\n", l.Name, l.Path)
				continue
			}
			e, _ := cat.Lookup(l.Name)
			line := fmt.Sprintf("- %s: %s [%dx%d]", l.Name, l.Path, e.Rows, e.Columns)
			if l.Description != "" {
				line += " (" + l.Description + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var samplesAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a CSV/TSV/XLSX file under a sample name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		e, err := cat.Add(args[0], samplesName, samplesDesc)
		if err != nil {
			return err
		}
		if err := cat.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added sample '%s' (%d rows, %d columns) with ID %s\n", e.Name, e.Rows, e.Columns, e.ID)
		return nil
	},
}

var samplesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget an added sample (the file is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		if err := cat.Remove(args[0]); err != nil {
			return err
		}
		if err := cat.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed sample '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(samplesCmd)
	samplesCmd.AddCommand(samplesListCmd, samplesAddCmd, samplesRemoveCmd)
	samplesAddCmd.Flags().StringVar(&samplesName, "name", "", "sample name (default file name without extension)")
	samplesAddCmd.Flags().StringVar(&samplesDesc, "desc", "", "short description")
}
