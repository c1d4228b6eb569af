package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tidycsv/internal/cleaning"
	"github.com/KaramelBytes/tidycsv/internal/ui"
	"github.com/KaramelBytes/tidycsv/internal/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var exploreDir string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse a dataset and clean it interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		exportDir, err := utils.ExpandHome(c.ExportDir)
		if err != nil {
			return err
		}
		method, err := cleaning.ParseMethod(c.DefaultImputation)
		if err != nil {
			return err
		}
		mode, err := cleaning.ParseMode(c.DefaultMode)
		if err != nil {
			return err
		}
		m := ui.New(ui.Config{
			Catalog:   cat,
			ExportDir: exportDir,
			StartDir:  exploreDir,
			Defaults:  cleaning.Options{Imputation: method, Mode: mode},
		})
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("explorer: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exploreDir, "dir", "", "starting directory of the file browser (default current directory)")
}
