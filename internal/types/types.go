// =============================================================================
// Card Sheet Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - converter
//   - cmd
//   - pkg/utils
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

var (
	// ErrPathNotFound is returned when the input path does not exist.
	// It is fatal for the whole invocation.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidInputType is returned when the input path is neither a file
	// nor a directory, or a single file lacks an accepted extension.
	ErrInvalidInputType = errors.New("invalid input type")

	// ErrEmptyTable is returned when a spreadsheet has no data rows.
	// Nothing is written for that file.
	ErrEmptyTable = errors.New("spreadsheet has no rows")
)

// ConversionError wraps a failure that happened while converting one file.
type ConversionError struct {
	// Path is the spreadsheet being converted.
	Path string

	// Op is the pipeline step that failed: "read", "normalize" or "write".
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// ConversionResult is the outcome of converting a single spreadsheet.
type ConversionResult struct {
	// InputFile is the spreadsheet that was processed.
	InputFile string

	// OutputFile is the generated JSON document.
	// Empty if the conversion failed.
	OutputFile string

	// Cards is the number of card records written.
	Cards int

	// Success indicates whether a JSON file was written.
	Success bool

	// Error is the failure reason, nil on success.
	Error error

	// Elapsed is the wall time spent on this file.
	Elapsed time.Duration
}

// BatchSummary aggregates the results of a directory run.
type BatchSummary struct {
	RunID     string
	Root      string
	Recursive bool
	StartTime time.Time
	EndTime   time.Time
	Attempted int
	Succeeded int
	Results   []ConversionResult
}

// Failed returns the number of files that could not be converted.
func (s *BatchSummary) Failed() int {
	return s.Attempted - s.Succeeded
}
