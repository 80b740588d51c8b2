package pretty_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/quickbook/internal/ui/pretty"
	"github.com/yaklabco/quickbook/pkg/diag"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		diag   diag.Diagnostic
		format diag.Format
		want   string
	}{
		{
			name: "gnu",
			diag: diag.Diagnostic{
				Severity: diag.SeverityError, Path: "doc.qbk", Line: 10, Column: 4,
				Message: "Mismatched [endsect]",
			},
			format: diag.FormatGNU,
			want:   "doc.qbk:10:4: error: Mismatched [endsect]\n",
		},
		{
			name: "ms",
			diag: diag.Diagnostic{
				Severity: diag.SeverityWarning, Path: "doc.qbk", Line: 3, Column: 1,
				Message: "Missing [endsect]",
			},
			format: diag.FormatMS,
			want:   "doc.qbk(3): warning: Missing [endsect]\n",
		},
		{
			name:   "no location",
			diag:   diag.Diagnostic{Severity: diag.SeverityError, Message: "Unable to open file"},
			format: diag.FormatGNU,
			want:   "error: Unable to open file\n",
		},
		{
			name:   "path only",
			diag:   diag.Diagnostic{Severity: diag.SeverityError, Path: "missing.qbk", Message: "Unable to open file"},
			format: diag.FormatGNU,
			want:   "missing.qbk: error: Unable to open file\n",
		},
		{
			name:   "path only ms",
			diag:   diag.Diagnostic{Severity: diag.SeverityError, Path: "doc.qbk", Message: "Error in post-processing"},
			format: diag.FormatMS,
			want:   "doc.qbk: error: Error in post-processing\n",
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := styles.FormatDiagnostic(tt.diag, tt.format)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.diag.String(tt.format)+"\n", got, "matches the plain layout")
		})
	}
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name   string
		line   string
		column int
		width  int
		want   string
	}{
		{
			name:   "caret under column",
			line:   "[endsect]",
			column: 2,
			want:   "    [endsect]\n     ^\n",
		},
		{
			name:   "tab before column",
			line:   "\t[x]",
			column: 2,
			want:   "        [x]\n        ^\n",
		},
		{
			name: "no column",
			line: "text",
			want: "    text\n",
		},
		{
			name:   "cut to width",
			line:   "abcdefghij",
			column: 1,
			width:  8,
			want:   "    abcd\n    ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, styles.FormatSourceContext(tt.line, tt.column, tt.width))
		})
	}
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(diag.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(diag.SeverityWarning))
	assert.Equal(t, "note", styles.FormatSeverity("note"))
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printer := pretty.NewPrinter(&buf, pretty.NewStyles(false), pretty.PrinterOptions{
		Format:      diag.FormatGNU,
		ShowContext: true,
	})

	collector := diag.NewCollector(printer)
	collector.Report(diag.Diagnostic{
		Severity: diag.SeverityError, Path: "a.qbk", Line: 1, Column: 3,
		Message: "Unknown element", SourceLine: "[[zz]]",
	})
	collector.Report(diag.Diagnostic{Severity: diag.SeverityWarning, Message: "Empty id"})

	assert.Equal(t, "a.qbk:1:3: error: Unknown element\n    [[zz]]\n      ^\nwarning: Empty id\n", buf.String())
	assert.Equal(t, 1, collector.ErrorCount())
}
