package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ginjaninja78/cardsheet/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF8C42"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(12)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ECC71")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF8C42")).
			Padding(0, 1)
)

// renderSummary formats the outcome of a directory run.
func renderSummary(s *types.BatchSummary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Conversion Summary"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Run", s.RunID)
	row("Directory", s.Root)
	row("Converted", successStyle.Render(fmt.Sprintf("%d/%d", s.Succeeded, s.Attempted)))
	if s.Failed() > 0 {
		row("Failed", errorStyle.Render(fmt.Sprint(s.Failed())))
	}
	row("Elapsed", s.EndTime.Sub(s.StartTime).Round(time.Millisecond).String())

	for _, r := range s.Results {
		if r.Success {
			continue
		}
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ "))
		b.WriteString(filepath.Base(r.InputFile))
		if r.Error != nil {
			b.WriteString(": ")
			b.WriteString(r.Error.Error())
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
