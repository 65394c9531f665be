// Package ui provides styled terminal output for the pylon CLI, built on
// lipgloss.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#2563eb")
	colorSuccess = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#6b7280")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	MutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// Output handles styled terminal output for build and serve commands.
type Output struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
}

func NewOutput() *Output {
	return &Output{writer: os.Stdout, errWriter: os.Stderr}
}

func (o *Output) WithVerbose(verbose bool) *Output {
	o.verbose = verbose
	return o
}

func (o *Output) WithWriter(w io.Writer) *Output {
	o.writer = w
	return o
}

func (o *Output) WithErrWriter(w io.Writer) *Output {
	o.errWriter = w
	return o
}

func (o *Output) Title(msg string) {
	fmt.Fprintln(o.writer, TitleStyle.Render(msg))
}

func (o *Output) Success(msg string) {
	fmt.Fprintln(o.writer, successStyle.Render("✓ "+msg))
}

func (o *Output) Warning(msg string) {
	fmt.Fprintln(o.errWriter, warningStyle.Render("⚠ "+msg))
}

func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errWriter, errorStyle.Render("✗ "+msg))
}

// ErrorWithDetails prints an error with a context line such as the source
// path a build failure is attached to.
func (o *Output) ErrorWithDetails(msg, details string) {
	fmt.Fprintln(o.errWriter, errorStyle.Render("✗ "+msg))
	if details != "" {
		fmt.Fprintln(o.errWriter, MutedStyle.Render("  "+details))
	}
}

func (o *Output) Info(msg string) {
	fmt.Fprintln(o.writer, "ℹ "+msg)
}

// Debug prints msg only when verbose output is enabled.
func (o *Output) Debug(msg string) {
	if o.verbose {
		fmt.Fprintln(o.writer, MutedStyle.Render("› "+msg))
	}
}

// Progress prints a one-line "[current/total] msg" status.
func (o *Output) Progress(current, total int, msg string) {
	fmt.Fprintf(o.writer, "  %s%d/%d%s %s\n", MutedStyle.Render("["), current, total, MutedStyle.Render("]"), msg)
}

func (o *Output) Divider() {
	fmt.Fprintln(o.writer, MutedStyle.Render(strings.Repeat("─", 40)))
}

func (o *Output) KeyValue(key, value string) {
	fmt.Fprintf(o.writer, "%s: %s\n", MutedStyle.Render(key), value)
}
