// =============================================================================
// Card Sheet Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It runs the whole pipeline
// for a single spreadsheet, from reading the first sheet to writing the JSON
// document next to it (or into the output directory).
//
// CONVERSION PIPELINE:
//   1. Read the first sheet of the workbook
//   2. Reject sheets without data rows
//   3. Resolve header aliases to canonical fields (once per sheet)
//   4. Normalize every row into a card
//   5. Render {"cards": [...]} in memory
//   6. Write the output file
//
// FAILURE HANDLING:
//   Any failure ends the file with a ConversionError and nothing is written.
//   The error is logged here and returned in the Result; it never aborts a
//   directory run.
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/cardsheet/internal/card"
	"github.com/ginjaninja78/cardsheet/internal/columns"
	"github.com/ginjaninja78/cardsheet/internal/config"
	"github.com/ginjaninja78/cardsheet/internal/logging"
	"github.com/ginjaninja78/cardsheet/internal/table"
	"github.com/ginjaninja78/cardsheet/internal/types"
	"github.com/ginjaninja78/cardsheet/pkg/utils"
	"github.com/goccy/go-json"
)

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter turns card spreadsheets into JSON documents.
// A Converter holds no per-file state and may be reused.
type Converter struct {
	// cfg supplies column aliases, keywords and output formatting.
	cfg *config.Config

	// outputDir overrides where documents are written. Empty means next to
	// the input file.
	outputDir string

	logger logging.Logger
}

// Option customizes a Converter.
type Option func(*Converter)

// WithOutputDir writes every document into dir instead of next to its input.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		c.outputDir = dir
	}
}

// WithLogger replaces the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The effective configuration. nil selects config.Default().
//   - opts: Optional output directory and logger.
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}

	c := &Converter{
		cfg:    cfg,
		logger: logging.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert runs the pipeline for one spreadsheet.
//
// PARAMETERS:
//   - path: The spreadsheet to convert.
//
// RETURNS:
//   - The result. Result.Error is a *types.ConversionError when Success is
//     false; errors.Is(err, types.ErrEmptyTable) identifies empty sheets.
func (c *Converter) Convert(path string) types.ConversionResult {
	start := time.Now()
	result := types.ConversionResult{InputFile: path}

	c.logger.Debug("Processing file: %s", path)

	doc, err := c.Render(path)
	if err == nil {
		outputPath := utils.OutputPath(path, c.outputDir)
		if werr := c.write(path, outputPath, doc); werr != nil {
			err = werr
		} else {
			result.OutputFile = outputPath
			result.Cards = len(doc.Cards)
			result.Success = true
		}
	}

	result.Elapsed = time.Since(start)

	if err != nil {
		result.Error = err
		c.logger.Error("Failed to convert %s: %v", path, unwrapConversion(err))
		return result
	}

	c.logger.Info("Converted %s -> %s (%d cards)", path, result.OutputFile, result.Cards)
	return result
}

// Render reads and normalizes a spreadsheet without writing anything.
//
// RETURNS:
//   - The document holding one card per data row, in sheet order.
//   - A *types.ConversionError with Op "read" or "normalize" on failure.
func (c *Converter) Render(path string) (*card.Document, error) {
	// =========================================================================
	// STEP 1: READ THE FIRST SHEET
	// =========================================================================

	tbl, err := table.Read(path)
	if err != nil {
		return nil, &types.ConversionError{Path: path, Op: "read", Err: err}
	}

	if tbl.RowCount() == 0 {
		return nil, &types.ConversionError{Path: path, Op: "read", Err: types.ErrEmptyTable}
	}

	c.logger.Debug("Read %d rows from %s", tbl.RowCount(), describeSource(tbl))

	// =========================================================================
	// STEP 2: RESOLVE COLUMNS
	// =========================================================================

	mapping := columns.Resolve(tbl.Headers, c.cfg)
	if len(mapping) == 0 {
		c.logger.Warn("No known column headers in %s; every card will use defaults", path)
	} else {
		if !mapping.Has(config.FieldName) {
			c.logger.Warn("No name column in %s; every card will have an empty name", path)
		}
		c.logger.Debug("Resolved columns: %v", mapping.Headers())
	}

	// =========================================================================
	// STEP 3: NORMALIZE ROWS
	// =========================================================================

	normalizer := card.NewNormalizer(mapping, c.cfg)
	cards := make([]card.Card, 0, tbl.RowCount())

	for i, row := range tbl.Rows {
		cd, err := normalizer.Normalize(row, i+1)
		if err != nil {
			return nil, &types.ConversionError{Path: path, Op: "normalize", Err: err}
		}
		cards = append(cards, cd)
	}

	return &card.Document{Cards: cards}, nil
}

// write encodes doc and stores it at outputPath. Errors are reported
// against the input spreadsheet.
func (c *Converter) write(path, outputPath string, doc *card.Document) error {
	data, err := Encode(doc, c.cfg.JSONIndent)
	if err != nil {
		return &types.ConversionError{Path: path, Op: "write", Err: err}
	}

	if err := utils.WriteFile(outputPath, data); err != nil {
		return &types.ConversionError{Path: path, Op: "write", Err: err}
	}

	return nil
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders a document as UTF-8 JSON ending in a newline.
//
// PARAMETERS:
//   - doc: The document to encode.
//   - indent: Spaces per nesting level. Zero produces compact output.
//
// Non-ASCII text and HTML characters are written as is, not escaped.
func Encode(doc *card.Document, indent int) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode cards: %w", err)
	}

	return buf.Bytes(), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// describeSource names the file and, for workbooks, the sheet that was read.
func describeSource(tbl *table.Table) string {
	name := filepath.Base(tbl.SourceFile)
	if tbl.Sheet == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, tbl.Sheet)
}

// unwrapConversion strips the ConversionError envelope for log lines that
// already name the file.
func unwrapConversion(err error) error {
	var ce *types.ConversionError
	if errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", ce.Op, ce.Err)
	}
	return err
}
