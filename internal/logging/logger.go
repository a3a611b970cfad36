// =============================================================================
// Card Sheet Converter - Logging
// =============================================================================
//
// Every component logs through the small Logger interface below, so the CLI
// decides where messages go and tests can silence them.
//
// OUTPUT FORMAT:
//   [INFO] Converted cards.xlsx -> cards.json (12 cards)
//
// Level tags are colored when stdout is a terminal. Debug messages are only
// printed in verbose mode.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Logger is the logging interface used throughout the converter.
// Messages are printf-style format strings.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Console writes leveled messages to an output stream.
type Console struct {
	out     io.Writer
	verbose bool

	debugTag string
	infoTag  string
	warnTag  string
	errorTag string
}

// NewConsole creates a console logger writing to out.
//
// PARAMETERS:
//   - out: Destination for all messages.
//   - verbose: Print Debug messages when true.
//   - colored: Color the level tags.
func NewConsole(out io.Writer, verbose, colored bool) *Console {
	tag := func(label string, attrs ...color.Attribute) string {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprintf("[%s]", label)
	}

	return &Console{
		out:      out,
		verbose:  verbose,
		debugTag: tag("DEBUG", color.FgHiBlack),
		infoTag:  tag("INFO", color.FgCyan),
		warnTag:  tag("WARN", color.FgYellow),
		errorTag: tag("ERROR", color.FgRed, color.Bold),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) Debug(msg string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.print(c.debugTag, msg, args)
}

func (c *Console) Info(msg string, args ...interface{}) {
	c.print(c.infoTag, msg, args)
}

func (c *Console) Warn(msg string, args ...interface{}) {
	c.print(c.warnTag, msg, args)
}

func (c *Console) Error(msg string, args ...interface{}) {
	c.print(c.errorTag, msg, args)
}

func (c *Console) print(tag, msg string, args []interface{}) {
	fmt.Fprintf(c.out, tag+" "+msg+"\n", args...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
