package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/quickbook/pkg/diag"
	"github.com/yaklabco/quickbook/pkg/files"
)

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Path:     "doc.qbk",
		Line:     3,
		Column:   7,
		Message:  "Mismatched [endsect]",
	}

	assert.Equal(t, "doc.qbk:3:7: error: Mismatched [endsect]", d.String(diag.FormatGNU))
	assert.Equal(t, "doc.qbk(3): error: Mismatched [endsect]", d.String(diag.FormatMS))

	d.Line, d.Column = 0, 0
	assert.Equal(t, "doc.qbk: error: Mismatched [endsect]", d.String(diag.FormatGNU))
	assert.Equal(t, "doc.qbk: error: Mismatched [endsect]", d.String(diag.FormatMS))

	d.Path = ""
	assert.Equal(t, "error: Mismatched [endsect]", d.String(diag.FormatGNU))
	assert.Equal(t, "error: Mismatched [endsect]", d.String(diag.FormatMS))
}

func TestAt(t *testing.T) {
	t.Parallel()

	f := files.New("doc.qbk", "one\ntwo [x]\n", 0)
	d := diag.At(f, 8, diag.SeverityWarning, "odd")

	assert.Equal(t, "doc.qbk", d.Path)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Equal(t, "two [x]", d.SourceLine)
}

func TestCollector(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	collector := diag.NewCollector(diag.WriterSink{W: &buf})

	collector.Report(diag.Diagnostic{Severity: diag.SeverityError, Message: "a"})
	collector.Report(diag.Diagnostic{Severity: diag.SeverityWarning, Message: "b"})
	collector.Report(diag.Diagnostic{Severity: diag.SeverityError, Message: "c"})

	assert.Equal(t, 2, collector.ErrorCount())
	assert.Equal(t, 1, collector.WarningCount())
	assert.Len(t, collector.Diagnostics(), 3)
	assert.Equal(t, "error: a\nwarning: b\nerror: c\n", buf.String())
}
