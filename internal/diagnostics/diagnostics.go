package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Level represents the verbosity of console output
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelInfo
	LevelVerbose
)

// Console provides structured, user-friendly terminal output.
type Console struct {
	level  Level
	out    io.Writer
	errOut io.Writer

	verb    *color.Color
	path    *color.Color
	file    *color.Color
	success *color.Color
	failure *color.Color
}

// New creates a console writing to stdout/stderr.
func New(level Level) *Console {
	return &Console{
		level:   level,
		out:     os.Stdout,
		errOut:  os.Stderr,
		verb:    color.New(color.FgCyan, color.Bold),
		path:    color.New(color.FgWhite),
		file:    color.New(color.FgHiBlack),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// NewQuiet creates a console that only shows errors.
func NewQuiet() *Console {
	c := New(LevelError)
	return c
}

// SetOutput redirects both streams, mainly for tests.
func (c *Console) SetOutput(w io.Writer) {
	c.out = w
	c.errOut = w
}

// Error outputs error messages (always shown unless silent)
func (c *Console) Error(format string, args ...any) {
	if c.level >= LevelError {
		fmt.Fprintf(c.errOut, "%s %s\n", c.failure.Sprint("ERROR"), fmt.Sprintf(format, args...))
	}
}

// Info outputs informational messages
func (c *Console) Info(format string, args ...any) {
	if c.level >= LevelInfo {
		fmt.Fprintf(c.out, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Success outputs success messages with emphasis
func (c *Console) Success(format string, args ...any) {
	if c.level >= LevelInfo {
		fmt.Fprintf(c.out, "%s %s\n", c.success.Sprint("✓"), fmt.Sprintf(format, args...))
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (c *Console) Verbose(format string, args ...any) {
	if c.level >= LevelVerbose {
		fmt.Fprintf(c.out, "%s\n", fmt.Sprintf(format, args...))
	}
}

// Section creates a prominent section header
func (c *Console) Section(title string) {
	if c.level >= LevelInfo {
		fmt.Fprintf(c.out, "\n%s\n", color.New(color.Bold).Sprint(title))
	}
}

// List outputs a bulleted list item
func (c *Console) List(format string, args ...any) {
	if c.level >= LevelInfo {
		fmt.Fprintf(c.out, "  • %s\n", fmt.Sprintf(format, args...))
	}
}

// Route prints one route-table line: verb, path, and the file it came from.
func (c *Console) Route(verb, path, file string) {
	if c.level >= LevelInfo {
		fmt.Fprintf(c.out, "  %-8s %-40s %s\n",
			c.verb.Sprint(verb), c.path.Sprint(path), c.file.Sprintf("(%s)", file))
	}
}
