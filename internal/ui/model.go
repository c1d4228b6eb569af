// Package ui is the interactive dataset explorer.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/cleaning"
	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/source"
	"github.com/KaramelBytes/tidycsv/internal/utils"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateSourceSelect state = iota
	stateFilePicker
	stateOptions
	stateResult
	stateError
)

// Option rows of the cleaning form, in display order.
const (
	optOutliers = iota
	optWhitespace
	optDropNulls
	optImputation
	optMode
	optCount
)

const browseLabel = "my dataset (browse for a file)"

// Config seeds the explorer.
type Config struct {
	Catalog   *source.Catalog
	ExportDir string
	StartDir  string
	Defaults  cleaning.Options
}

type Model struct {
	state      state
	cfg        Config
	choices    []source.Listing
	cursor     int
	filepicker filepicker.Model
	missingBar progress.Model

	label      string
	ds         *dataset.Dataset
	outlierOn  bool
	outlierIdx int
	opts       cleaning.Options
	result     *cleaning.Result
	exportPath string
	exportErr  error
	err        error
	width      int
	height     int
}

type datasetLoadedMsg struct {
	label string
	ds    *dataset.Dataset
	err   error
}

type cleanedMsg struct {
	result *cleaning.Result
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

func New(cfg Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt", ".xlsx"}
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#2BB673"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DD3A8"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#2BB673")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	if cfg.Defaults.Imputation == "" {
		cfg.Defaults.Imputation = cleaning.MethodMean
	}
	if cfg.Defaults.Mode == "" {
		cfg.Defaults.Mode = cleaning.ModeChain
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = &source.Catalog{Entries: map[string]*source.Entry{}}
	}
	choices := append(cat.List(), source.Listing{Name: browseLabel})

	return Model{
		state:      stateSourceSelect,
		cfg:        cfg,
		choices:    choices,
		filepicker: fp,
		missingBar: progress.New(progress.WithGradient("#7DD3A8", "#FF4757"), progress.WithWidth(20), progress.WithoutPercentage()),
		opts:       cfg.Defaults,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateSourceSelect:
			return m.updateSourceSelect(msg)
		case stateFilePicker:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "esc":
				m.state = stateSourceSelect
				return m, nil
			}
		case stateOptions:
			return m.updateOptions(msg)
		case stateResult:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "e":
				return m, m.export()
			case "b", "esc":
				m.state = stateOptions
				m.exportPath, m.exportErr = "", nil
				return m, nil
			}
			return m, nil
		case stateError:
			switch msg.String() {
			case "q", "enter":
				return m, tea.Quit
			case "esc", "b":
				m.err = nil
				m.state = stateSourceSelect
				return m, nil
			}
			return m, nil
		}

	case datasetLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.label = msg.label
		m.ds = msg.ds
		m.cursor = 0
		m.outlierIdx = 0
		m.outlierOn = false
		m.opts = m.cfg.Defaults
		if c := m.cfg.Defaults.RemoveOutlierColumn; c != "" {
			for i, n := range msg.ds.Names() {
				if n == c {
					m.outlierIdx, m.outlierOn = i, true
				}
			}
		}
		m.state = stateOptions
		return m, nil

	case cleanedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.exportPath, m.exportErr = "", nil
		m.state = stateResult
		return m, nil

	case exportedMsg:
		m.exportPath, m.exportErr = msg.path, msg.err
		return m, nil
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m, loadFile(path)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSourceSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		choice := m.choices[m.cursor]
		if choice.Name == browseLabel {
			m.state = stateFilePicker
			return m, m.filepicker.Init()
		}
		var src source.DataSource = source.NamedSample{Name: choice.Name}
		if !choice.Bundled {
			src = source.NamedSample{Name: choice.Name, Path: choice.Path}
		}
		return m, loadSource(src)
	}
	return m, nil
}

func (m Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.ds.Names()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSourceSelect
		m.cursor = 0
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < optCount-1 {
			m.cursor++
		}
	case " ", "x":
		switch m.cursor {
		case optOutliers:
			m.outlierOn = !m.outlierOn
		case optWhitespace:
			m.opts.NormalizeColumnWhitespace = !m.opts.NormalizeColumnWhitespace
		case optDropNulls:
			m.opts.DropNullRows = !m.opts.DropNullRows
		case optImputation:
			m.opts.Imputation = toggleMethod(m.opts.Imputation)
		case optMode:
			m.opts.Mode = toggleMode(m.opts.Mode)
		}
	case "left", "h", "right", "l":
		step := 1
		if s := msg.String(); s == "left" || s == "h" {
			step = -1
		}
		switch m.cursor {
		case optOutliers:
			if len(names) > 0 {
				m.outlierIdx = (m.outlierIdx + step + len(names)) % len(names)
				m.outlierOn = true
			}
		case optImputation:
			m.opts.Imputation = toggleMethod(m.opts.Imputation)
		case optMode:
			m.opts.Mode = toggleMode(m.opts.Mode)
		}
	case "enter":
		return m, runClean(m.ds, m.cleaningOptions())
	}
	return m, nil
}

func toggleMethod(mt cleaning.Method) cleaning.Method {
	if mt == cleaning.MethodMedian {
		return cleaning.MethodMean
	}
	return cleaning.MethodMedian
}

func toggleMode(md cleaning.Mode) cleaning.Mode {
	if md == cleaning.ModeSource {
		return cleaning.ModeChain
	}
	return cleaning.ModeSource
}

// cleaningOptions returns the pipeline options selected in the form.
func (m Model) cleaningOptions() cleaning.Options {
	opt := m.opts
	opt.RemoveOutlierColumn = ""
	if m.outlierOn && m.ds != nil && m.outlierIdx < m.ds.Ncol() {
		opt.RemoveOutlierColumn = m.ds.Names()[m.outlierIdx]
	}
	return opt
}

func loadSource(src source.DataSource) tea.Cmd {
	return func() tea.Msg {
		ds, err := source.Load(src, dataset.LoadOptions{})
		return datasetLoadedMsg{label: src.Label(), ds: ds, err: err}
	}
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		src, err := source.Resolve(path, nil, nil)
		if err != nil {
			return datasetLoadedMsg{err: err}
		}
		ds, err := source.Load(src, dataset.LoadOptions{})
		return datasetLoadedMsg{label: src.Label(), ds: ds, err: err}
	}
}

func runClean(ds *dataset.Dataset, opt cleaning.Options) tea.Cmd {
	return func() tea.Msg {
		res, err := cleaning.Clean(ds, opt)
		return cleanedMsg{result: res, err: err}
	}
}

func (m Model) export() tea.Cmd {
	dir := m.cfg.ExportDir
	label := m.label
	res := m.result
	return func() tea.Msg {
		if res == nil {
			return exportedMsg{err: fmt.Errorf("nothing to export")}
		}
		if dir == "" {
			dir = "."
		}
		if err := utils.EnsureDir(dir); err != nil {
			return exportedMsg{err: err}
		}
		path := filepath.Join(dir, utils.CleanedName(label, res.Method, ".csv"))
		if err := utils.SafeWriteFile(path, res.Export); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

func (m Model) View() string {
	switch m.state {
	case stateSourceSelect:
		return m.viewSourceSelect()
	case stateFilePicker:
		return m.viewFilePicker()
	case stateOptions:
		return m.viewOptions()
	case stateResult:
		return m.viewResult()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewSourceSelect() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("tidycsv: generic dataset cleaning and basic analysis"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select your dataset"))
	s.WriteString("\n\n")
	for i, c := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, c.Name)
		if c.Name != browseLabel && c.Description != "" {
			line += DimStyle.Render("  " + c.Description)
		}
		if m.cursor == i {
			line = SelectedStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: open • q: quit"))
	return BoxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("Add your file"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV, TSV or XLSX file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("esc: back • q: quit"))
	return s.String()
}

func (m Model) viewOptions() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("Data visualization"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Dataset: %s • %d rows • %d columns", m.label, m.ds.Nrow(), m.ds.Ncol())))
	s.WriteString("\n")

	for _, name := range m.ds.Names() {
		dt, _ := m.ds.DType(name)
		missing, _ := m.ds.MissingCount(name)
		pct := 0.0
		if m.ds.Nrow() > 0 {
			pct = float64(missing) / float64(m.ds.Nrow())
		}
		s.WriteString(fmt.Sprintf("  %-24s %-7s %s %5.1f%% NA\n", truncate(name, 24), dt, m.missingBar.ViewAs(pct), pct*100))
	}

	s.WriteString("\n")
	s.WriteString(TitleStyle.Render("Data set cleaning"))
	s.WriteString("\n")
	names := m.ds.Names()
	for i := 0; i < optCount; i++ {
		var line string
		switch i {
		case optOutliers:
			col := "-"
			if len(names) > 0 {
				col = names[m.outlierIdx]
			}
			line = fmt.Sprintf("%s Remove outliers in column: ‹ %s ›", check(m.outlierOn), col)
		case optWhitespace:
			line = fmt.Sprintf("%s Remove whitespace in column names", check(m.opts.NormalizeColumnWhitespace))
		case optDropNulls:
			line = fmt.Sprintf("%s Drop rows with null values", check(m.opts.DropNullRows))
		case optImputation:
			line = fmt.Sprintf("    Imputation of numeric data: ‹ %s ›", m.opts.Imputation)
			if m.opts.DropNullRows {
				line = DimStyle.Render(line + " (unused while dropping)")
			}
		case optMode:
			line = fmt.Sprintf("    Missing-data input: ‹ %s ›", m.opts.Mode)
		}
		if m.cursor == i {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("↑/↓: navigate • space: toggle • ←/→: change • enter: clean • esc: back • q: quit"))
	return BoxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder
	res := m.result
	s.WriteString(TitleStyle.Render("Cleaning result"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s • method %s • %d rows • %d columns", m.label, res.Method, res.Dataset.Nrow(), res.Dataset.Ncol())))
	s.WriteString("\n")
	for _, d := range res.Diagnostics {
		s.WriteString(StatusStyle(string(d.Status)).Render(fmt.Sprintf("[%s]", d.Status)))
		s.WriteString(fmt.Sprintf(" %s: %s\n", d.Step, d.Message))
	}
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(res.Dataset.Names(), ", ")))
	switch {
	case m.exportErr != nil:
		s.WriteString(ErrorStyle.Render("✗ Export failed: " + m.exportErr.Error()))
		s.WriteString("\n")
	case m.exportPath != "":
		s.WriteString(SuccessStyle.Render("✓ Exported to " + m.exportPath))
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("e: export csv • b: back to options • q: quit"))
	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder
	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	if m.err != nil {
		s.WriteString(m.err.Error())
	}
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("esc: choose another dataset • q: quit"))
	return BoxStyle.Render(s.String())
}

func check(on bool) string {
	if on {
		return CheckedStyle.Render("[x]")
	}
	return "[ ]"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
