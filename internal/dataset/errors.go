package dataset

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError indicates a referenced column is absent from the dataset.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// TypeMismatchError indicates a numeric operation was requested on a non-numeric column.
type TypeMismatchError struct {
	Column string
	Kind   Kind
	Op     string
}

func (e *TypeMismatchError) Error() string {
	op := e.Op
	if op == "" {
		op = "operation"
	}
	return fmt.Sprintf("%s requires a numeric column: %q is %s", op, e.Column, e.Kind)
}

// ParseError wraps failures reading delimited input. Line is 1-based and 0 when unknown.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", src, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", src, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
