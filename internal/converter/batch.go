package converter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/cardsheet/internal/types"
	"github.com/ginjaninja78/cardsheet/pkg/utils"
	"github.com/google/uuid"
)

// ConvertDirectory converts every accepted spreadsheet under root, one file
// at a time. A file that fails is recorded in the summary and the run moves
// on to the next one.
//
// PARAMETERS:
//   - root: The directory to scan.
//   - recursive: Include subdirectories.
//
// RETURNS:
//   - The batch summary, with one result per attempted file in discovery
//     order.
//   - An error only if root itself cannot be scanned.
func (c *Converter) ConvertDirectory(root string, recursive bool) (*types.BatchSummary, error) {
	summary := &types.BatchSummary{
		RunID:     uuid.NewString(),
		Root:      root,
		Recursive: recursive,
		StartTime: time.Now(),
	}

	files, err := utils.DiscoverSpreadsheets(root, recursive, c.cfg.AcceptsExtension)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		c.logger.Warn("No spreadsheets found in %s (extensions: %v)", root, c.cfg.Extensions)
	} else {
		c.logger.Info("Found %d spreadsheet(s) in %s [run %s]", len(files), root, summary.RunID)
	}

	summary.Results = make([]types.ConversionResult, 0, len(files))
	written := make(map[string]string, len(files))
	for i, file := range files {
		c.logger.Debug("%s", progress(i+1, len(files), file))

		result := c.Convert(file)
		summary.Attempted++
		if result.Success {
			summary.Succeeded++

			// Inputs with the same base name collide when --output is set.
			if prev, ok := written[result.OutputFile]; ok {
				c.logger.Warn("%s replaced %s, written earlier in this run from %s", file, result.OutputFile, prev)
			}
			written[result.OutputFile] = file
		}
		summary.Results = append(summary.Results, result)
	}

	summary.EndTime = time.Now()
	return summary, nil
}

func progress(n, total int, file string) string {
	return fmt.Sprintf("[%d/%d] %s", n, total, file)
}
