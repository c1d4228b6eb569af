// Package cleaning implements interquartile-range outlier filtering and the
// cleaning pipeline that chains it with column-name normalization and
// missing-value resolution.
package cleaning

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
	"github.com/KaramelBytes/tidycsv/internal/export"
	"github.com/google/uuid"
)

// Mode decides which dataset the missing-data step operates on.
type Mode string

const (
	// ModeChain feeds each step the output of the previous one.
	ModeChain Mode = "chain"
	// ModeSource re-derives the missing-data input from the loaded dataset,
	// discarding the outlier and column-name steps.
	ModeSource Mode = "source"
)

// ParseMode accepts chain|source in any case; empty means chain.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeChain:
		return ModeChain, nil
	case ModeSource:
		return ModeSource, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use chain or source)", s)
	}
}

// Options selects the optional steps of a pipeline run.
type Options struct {
	// RemoveOutlierColumn enables outlier removal on the named column when set.
	RemoveOutlierColumn       string
	NormalizeColumnWhitespace bool
	// DropNullRows selects the drop path; otherwise missing values are imputed.
	DropNullRows bool
	Imputation   Method
	Mode         Mode
}

// Step names used in diagnostics.
const (
	StepOutliers = "outliers"
	StepColumns  = "column-names"
	StepDrop     = "drop-nulls"
	StepImpute   = "impute"
)

// Status is the outcome of one pipeline step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Diagnostic reports what a step did, for display by the caller.
type Diagnostic struct {
	Step    string
	Status  Status
	Message string
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Status, d.Step, d.Message)
}

// StepResult carries a step's dataset and its diagnostic. On failure Dataset is
// the step's unchanged input.
type StepResult struct {
	Dataset    *dataset.Dataset
	Diagnostic Diagnostic
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID       string
	Dataset     *dataset.Dataset
	Method      string // drop|mean|median
	Options     Options
	Diagnostics []Diagnostic
	// Export is the CSV serialization of Dataset and Encoded its base64 form.
	Export  []byte
	Encoded string
}

// Failed returns the diagnostics of steps that failed.
func (r *Result) Failed() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Status == StatusFailed {
			out = append(out, d)
		}
	}
	return out
}

// ImpossibleColumnMessage is shown when a column cannot serve a numeric step.
const ImpossibleColumnMessage = "impossible on this column, select another"

// Clean runs outlier removal, column-name normalization and missing-data
// resolution in that order. Step failures become diagnostics and the run goes on
// with the step's input; only serialization of the final dataset can fail.
func Clean(src *dataset.Dataset, opt Options) (*Result, error) {
	if opt.Imputation == "" {
		opt.Imputation = MethodMean
	}
	if opt.Mode == "" {
		opt.Mode = ModeChain
	}
	res := &Result{RunID: uuid.NewString(), Options: opt}
	cur := src

	step := outlierStep(cur, opt.RemoveOutlierColumn)
	res.Diagnostics = append(res.Diagnostics, step.Diagnostic)
	cur = step.Dataset

	step = columnStep(cur, opt.NormalizeColumnWhitespace)
	res.Diagnostics = append(res.Diagnostics, step.Diagnostic)
	cur = step.Dataset

	in := cur
	if opt.Mode == ModeSource {
		in = src
	}
	if opt.DropNullRows {
		step = dropStep(in)
		res.Method = "drop"
	} else {
		step = imputeStep(in, opt.Imputation)
		res.Method = string(opt.Imputation)
	}
	if opt.Mode == ModeSource {
		step.Diagnostic.Message += "; re-derived from source, outlier and column-name steps discarded"
	}
	res.Diagnostics = append(res.Diagnostics, step.Diagnostic)
	res.Dataset = step.Dataset

	b, err := export.CSV(res.Dataset)
	if err != nil {
		return nil, err
	}
	res.Export = b
	res.Encoded = export.Base64(b)

	slog.Debug("pipeline finished",
		slog.String("run_id", res.RunID),
		slog.String("method", res.Method),
		slog.String("mode", string(opt.Mode)),
		slog.Int("rows_in", src.Nrow()),
		slog.Int("rows_out", res.Dataset.Nrow()),
		slog.Int("failed_steps", len(res.Failed())))
	return res, nil
}

func outlierStep(ds *dataset.Dataset, column string) StepResult {
	if column == "" {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{Step: StepOutliers, Status: StatusSkipped, Message: "not requested"}}
	}
	out, err := FilterOutliers(ds, column)
	if err != nil {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{
			Step:    StepOutliers,
			Status:  StatusFailed,
			Message: fmt.Sprintf("%s (%v)", ImpossibleColumnMessage, err),
			Err:     err,
		}}
	}
	return StepResult{Dataset: out, Diagnostic: Diagnostic{
		Step:    StepOutliers,
		Status:  StatusOK,
		Message: fmt.Sprintf("removed %d of %d rows outside the IQR fence of %q", ds.Nrow()-out.Nrow(), ds.Nrow(), column),
	}}
}

func columnStep(ds *dataset.Dataset, enabled bool) StepResult {
	if !enabled {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{Step: StepColumns, Status: StatusSkipped, Message: "not requested"}}
	}
	out, err := NormalizeColumnNames(ds)
	if err != nil {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{Step: StepColumns, Status: StatusFailed, Message: err.Error(), Err: err}}
	}
	return StepResult{Dataset: out, Diagnostic: Diagnostic{
		Step:    StepColumns,
		Status:  StatusOK,
		Message: "columns: " + strings.Join(out.Names(), ", "),
	}}
}

func dropStep(ds *dataset.Dataset) StepResult {
	out, err := DropMissingRows(ds)
	if err != nil {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{Step: StepDrop, Status: StatusFailed, Message: err.Error(), Err: err}}
	}
	return StepResult{Dataset: out, Diagnostic: Diagnostic{
		Step:    StepDrop,
		Status:  StatusOK,
		Message: fmt.Sprintf("dropped %d rows with missing values, %d remain", ds.Nrow()-out.Nrow(), out.Nrow()),
	}}
}

func imputeStep(ds *dataset.Dataset, method Method) StepResult {
	out, filled, err := Impute(ds, method)
	if err != nil {
		return StepResult{Dataset: ds, Diagnostic: Diagnostic{Step: StepImpute, Status: StatusFailed, Message: err.Error(), Err: err}}
	}
	msg := "no numeric column had missing values"
	if len(filled) > 0 {
		msg = fmt.Sprintf("filled missing values with the %s in %s", method, strings.Join(filled, ", "))
	}
	return StepResult{Dataset: out, Diagnostic: Diagnostic{Step: StepImpute, Status: StatusOK, Message: msg}}
}
