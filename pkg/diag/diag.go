// Package diag carries compiler diagnostics: located warnings and errors,
// the sink they are reported to and the collector that counts them.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
)

// Severity is the severity of a diagnostic.
type Severity string

const (
	// SeverityWarning is informational and does not affect the exit code.
	SeverityWarning Severity = "warning"

	// SeverityError counts towards the exit code.
	SeverityError Severity = "error"
)

// Diagnostic is a single located message.
type Diagnostic struct {
	Severity Severity
	Path     string
	Line     int
	Column   int
	Message  string

	// SourceLine is the text of the offending line, when known.
	SourceLine string
}

// At builds a diagnostic located at offset within f.
func At(f *files.File, offset int, severity Severity, message string) Diagnostic {
	d := Diagnostic{Severity: severity, Message: message}
	if f == nil {
		return d
	}
	pos := f.PositionOf(offset)
	original := f.Original()
	d.Path = original.Path
	d.Line = pos.Line
	d.Column = pos.Column
	d.SourceLine = original.LineContent(pos.Line)
	return d
}

// Format selects the textual layout of diagnostics.
type Format int

const (
	// FormatGNU prints "path:line:col: severity: message".
	FormatGNU Format = iota

	// FormatMS prints "path(line): severity: message".
	FormatMS
)

// String renders the diagnostic in the given format.
func (d Diagnostic) String(format Format) string {
	var b strings.Builder
	switch {
	case d.Path == "":
	case d.Line <= 0:
		fmt.Fprintf(&b, "%s: ", d.Path)
	case format == FormatMS:
		fmt.Fprintf(&b, "%s(%d): ", d.Path, d.Line)
	default:
		fmt.Fprintf(&b, "%s:%d:%d: ", d.Path, d.Line, d.Column)
	}
	b.WriteString(string(d.Severity))
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// WriterSink prints diagnostics as plain text lines.
type WriterSink struct {
	W      io.Writer
	Format Format
}

// Report writes one line.
func (s WriterSink) Report(d Diagnostic) {
	_, _ = fmt.Fprintln(s.W, d.String(s.Format))
}

// Collector counts diagnostics and forwards them to an optional sink.
type Collector struct {
	next     Sink
	errors   int
	warnings int
	all      []Diagnostic
}

// NewCollector returns a collector forwarding to next, which may be nil.
func NewCollector(next Sink) *Collector {
	return &Collector{next: next}
}

// Report records d and forwards it.
func (c *Collector) Report(d Diagnostic) {
	switch d.Severity {
	case SeverityError:
		c.errors++
	case SeverityWarning:
		c.warnings++
	}
	c.all = append(c.all, d)
	if c.next != nil {
		c.next.Report(d)
	}
}

// ErrorCount returns the number of errors reported.
func (c *Collector) ErrorCount() int { return c.errors }

// WarningCount returns the number of warnings reported.
func (c *Collector) WarningCount() int { return c.warnings }

// Diagnostics returns everything reported so far, in order.
func (c *Collector) Diagnostics() []Diagnostic { return c.all }
