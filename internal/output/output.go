// Package output renders styled CLI messages and compile reports.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	keyStyle     = lipgloss.NewStyle().Bold(true)
)

// Printer writes styled lines to an output stream.
type Printer struct {
	w       io.Writer
	verbose bool
}

// New returns a Printer writing to w (stdout when nil).
func New(w io.Writer, verbose bool) *Printer {
	if w == nil {
		w = os.Stdout
	}

	return &Printer{w: w, verbose: verbose}
}

func (p *Printer) line(style lipgloss.Style, msg string) {
	fmt.Fprintln(p.w, style.Render(msg))
}

// Success prints a completed operation.
func (p *Printer) Success(msg string) { p.line(successStyle, "✔ "+msg) }

// Error prints a failure.
func (p *Printer) Error(msg string) { p.line(errorStyle, "✘ "+msg) }

// Warn prints a non-fatal problem.
func (p *Printer) Warn(msg string) { p.line(warnStyle, "! "+msg) }

// Info prints a status line.
func (p *Printer) Info(msg string) { p.line(infoStyle, msg) }

// Step prints an indented detail line.
func (p *Printer) Step(msg string) { p.line(stepStyle, "   "+msg) }

// Verbose prints msg only in verbose mode.
func (p *Printer) Verbose(msg string) {
	if p.verbose {
		p.line(stepStyle, "· "+msg)
	}
}

// KeyValue prints an aligned "key: value" pair.
func (p *Printer) KeyValue(key string, value any) {
	fmt.Fprintf(p.w, "%s %v\n", keyStyle.Render(fmt.Sprintf("%-16s", key+":")), value)
}

// Diagnostics prints a compile report, errors first.
func (p *Printer) Diagnostics(d diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		p.Error(e.String())
	}

	for _, w := range d.Warnings {
		p.Warn(w.String())
	}

	for _, i := range d.Infos {
		p.Verbose(i.String())
	}
}

// Warnings prints missing-member warnings of one sample.
func (p *Printer) Warnings(prefix string, ws []errdefs.MissingFieldWarning) {
	for _, w := range ws {
		p.Warn(prefix + w.String())
	}
}
