package pretty

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yaklabco/quickbook/pkg/diag"
)

// sourceIndent aligns source context under the diagnostic.
const sourceIndent = "    "

// tabWidth matches lipgloss's default tab expansion.
const tabWidth = 4

// FormatDiagnostic formats a single diagnostic for terminal output.
// The location uses the same layout as the plain text format so editors
// can still jump to it.
func (s *Styles) FormatDiagnostic(d diag.Diagnostic, format diag.Format) string {
	var builder strings.Builder

	if location := formatLocation(d, format); location != "" {
		builder.WriteString(s.FilePath.Render(location) + " ")
	}
	builder.WriteString(s.FormatSeverity(d.Severity) + ": ")
	builder.WriteString(s.Message.Render(d.Message))
	builder.WriteString("\n")

	return builder.String()
}

func formatLocation(d diag.Diagnostic, format diag.Format) string {
	switch {
	case d.Path == "":
		return ""
	case d.Line <= 0:
		return d.Path + ":"
	case format == diag.FormatMS:
		return fmt.Sprintf("%s(%d):", d.Path, d.Line)
	default:
		return fmt.Sprintf("%s:%d:%d:", d.Path, d.Line, d.Column)
	}
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret under column.
// Lines wider than width are cut; a width of 0 leaves them whole.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	style := s.SourceLine
	if avail := width - len(sourceIndent); width > 0 && avail > 0 {
		style = style.MaxWidth(avail)
	}
	builder.WriteString(sourceIndent + style.Render(line) + "\n")

	if column > 0 {
		builder.WriteString(sourceIndent + caretPadding(line, column) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// caretPadding lines the caret up with column. Rendering expands each tab
// to tabWidth spaces.
func caretPadding(line string, column int) string {
	var pad strings.Builder
	n := 1
	for _, r := range line {
		if n >= column {
			break
		}
		if r == '\t' {
			pad.WriteString(strings.Repeat(" ", tabWidth))
		} else {
			pad.WriteByte(' ')
		}
		n++
	}
	for ; n < column; n++ {
		pad.WriteByte(' ')
	}
	return pad.String()
}

// Printer is a diag.Sink that writes styled diagnostics as they are
// reported.
type Printer struct {
	mu          sync.Mutex
	w           io.Writer
	styles      *Styles
	format      diag.Format
	showContext bool
	width       int
}

// PrinterOptions configures a Printer.
type PrinterOptions struct {
	// Format selects GNU or MS locations.
	Format diag.Format

	// ShowContext prints the offending source line under each diagnostic.
	ShowContext bool

	// Width caps the source line; 0 leaves it whole.
	Width int
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer, styles *Styles, opts PrinterOptions) *Printer {
	return &Printer{
		w:           w,
		styles:      styles,
		format:      opts.Format,
		showContext: opts.ShowContext,
		width:       opts.Width,
	}
}

// Report writes d.
func (p *Printer) Report(d diag.Diagnostic) {
	out := p.styles.FormatDiagnostic(d, p.format)
	if p.showContext && d.SourceLine != "" {
		out += p.styles.FormatSourceContext(d.SourceLine, d.Column, p.width)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, out)
}
