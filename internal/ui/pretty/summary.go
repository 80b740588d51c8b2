package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const summaryDividerWidth = 40

// Stats describes one compilation for the summary.
type Stats struct {
	Input        string
	Output       string
	Errors       int
	Warnings     int
	Dependencies int
	Duration     time.Duration
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// FormatSummaryOneLine formats compilation statistics as a single line.
// Example: "2 errors, 1 warning in doc.qbk".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	if stats.Errors == 0 && stats.Warnings == 0 {
		msg := s.Success.Render("Compiled " + stats.Input)
		if stats.Output != "" {
			msg += s.Dim.Render(fmt.Sprintf(" (wrote %s in %s)", stats.Output, stats.Duration.Round(time.Millisecond)))
		}
		return msg + "\n"
	}

	var parts []string
	if stats.Errors > 0 {
		parts = append(parts, s.Error.Render(plural(stats.Errors, "error")))
	}
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.Warnings, "warning")))
	}

	return strings.Join(parts, ", ") + " in " + stats.Input + "\n"
}

// FormatSummary formats compilation statistics as a summary block.
func (s *Styles) FormatSummary(stats Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Input:        " + s.SummaryValue.Render(stats.Input) + "\n")
	if stats.Output != "" {
		builder.WriteString("  Output:       " + s.SummaryValue.Render(stats.Output) + "\n")
	}
	builder.WriteString("  Dependencies: " + s.SummaryValue.Render(strconv.Itoa(stats.Dependencies)) + "\n")
	builder.WriteString("  Time:         " + s.SummaryValue.Render(stats.Duration.Round(time.Millisecond).String()) + "\n")

	builder.WriteString("\n")

	if stats.Errors > 0 {
		builder.WriteString("  Errors:       " + s.Error.Render(strconv.Itoa(stats.Errors)) + "\n")
	}
	if stats.Warnings > 0 {
		builder.WriteString("  Warnings:     " + s.Warning.Render(strconv.Itoa(stats.Warnings)) + "\n")
	}

	switch {
	case stats.Errors > 0:
		builder.WriteString(s.Failure.Render("Compilation failed with errors"))
	case stats.Warnings > 0:
		builder.WriteString(s.Warning.Render("Compiled with warnings"))
	default:
		builder.WriteString(s.Success.Render("Compiled successfully"))
	}
	builder.WriteString("\n")

	return builder.String()
}
