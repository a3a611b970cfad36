// =============================================================================
// Card Sheet Converter - File Manager Utility
// =============================================================================
//
// This module provides the file system helpers used by the converter:
//   - Spreadsheet discovery (top level or recursive)
//   - Output path derivation
//   - Whole-file writes that never leave a partial document behind
//   - The JSON batch report
//
// OUTPUT NAMING:
//   cards/monsters.xlsx            -> cards/monsters.json
//   cards/monsters.xlsx, -o out    -> out/monsters.json
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/cardsheet/internal/types"
	"github.com/goccy/go-json"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverSpreadsheets lists the files under root accepted by the filter.
//
// PARAMETERS:
//   - root: The directory to scan.
//   - recursive: Descend into subdirectories when true.
//   - accept: Decides whether a file path is a spreadsheet to convert.
//
// RETURNS:
//   - The matching file paths, in lexical walk order.
//   - An error if root cannot be read.
//
// Directories are never returned, even when their name carries an accepted
// extension. Unreadable subdirectories are skipped. A root that is a symbolic
// link is followed; the returned paths still start with root.
func DiscoverSpreadsheets(root string, recursive bool, accept func(path string) bool) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", root, err)
	}

	var files []string

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == resolved {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path != resolved && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		path = underRoot(root, resolved, path)
		if accept(path) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", root, err)
	}

	return files, nil
}

// underRoot rewrites a path found below resolved so that it starts with root.
func underRoot(root, resolved, path string) string {
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// OutputPath derives the JSON path for a spreadsheet. With an empty outputDir
// the document is placed next to the input.
func OutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), stem+".json")
	}
	return filepath.Join(outputDir, stem+".json")
}

// WriteFile writes data to path through a temporary file in the same
// directory, so readers see either the old content or the complete new one.
// Missing parent directories are created.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cardsheet-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

// =============================================================================
// BATCH REPORT
// =============================================================================

// reportFile is one per-file entry of the batch report.
type reportFile struct {
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	Cards     int    `json:"cards"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// report is the JSON layout of a batch report.
type report struct {
	RunID     string       `json:"run_id"`
	Root      string       `json:"root"`
	Recursive bool         `json:"recursive"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Files     []reportFile `json:"files"`
}

// WriteReport writes a batch summary as an indented JSON document.
//
// PARAMETERS:
//   - summary: The directory run to report.
//   - path: Destination file. Parent directories are created.
//
// RETURNS:
//   - An error if encoding or writing fails.
func WriteReport(summary *types.BatchSummary, path string) error {
	r := report{
		RunID:     summary.RunID,
		Root:      summary.Root,
		Recursive: summary.Recursive,
		StartTime: summary.StartTime,
		EndTime:   summary.EndTime,
		Attempted: summary.Attempted,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed(),
		Files:     make([]reportFile, 0, len(summary.Results)),
	}

	for _, res := range summary.Results {
		entry := reportFile{
			Input:     res.InputFile,
			Output:    res.OutputFile,
			Cards:     res.Cards,
			Success:   res.Success,
			ElapsedMS: res.Elapsed.Milliseconds(),
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		r.Files = append(r.Files, entry)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return WriteFile(path, append(data, '\n'))
}
