package files

import "strings"

// TabWidth is the column width of a hard tab in indentation.
const TabWidth = 4

// IndentWidth returns the column width of a run of leading spaces and tabs.
// Tabs advance to the next multiple of TabWidth.
func IndentWidth(indent string) int {
	col := 0
	for i := 0; i < len(indent); i++ {
		switch indent[i] {
		case ' ':
			col++
		case '\t':
			col = (col/TabWidth + 1) * TabWidth
		default:
			return col
		}
	}
	return col
}

// LeadingWhitespace returns the leading run of spaces and tabs of s.
func LeadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

type sourceLine struct {
	begin  int // offset in the original file
	indent string
	body   string // text after the indentation, including the newline
	blank  bool
}

func splitLines(src string, begin, end int) []sourceLine {
	var lines []sourceLine
	pos := begin
	for pos < end {
		next := strings.IndexByte(src[pos:end], '\n')
		lineEnd := end
		if next >= 0 {
			lineEnd = pos + next + 1
		}
		text := src[pos:lineEnd]
		indent := LeadingWhitespace(text)
		rest := text[len(indent):]
		lines = append(lines, sourceLine{
			begin:  pos,
			indent: indent,
			body:   rest,
			blank:  rest == "" || rest == "\n",
		})
		pos = lineEnd
	}
	return lines
}

// UnindentAndAdd appends original.Source[begin:end] with the common
// leading indentation removed from every line. Whitespace-only lines are
// ignored when computing the common width and are emitted empty.
//
// When every line's indentation shares the same leading characters the
// common prefix is removed as is. Otherwise indentation is measured in
// columns and the straddled tab of a line is replaced by spaces so the
// relative indentation survives.
func (b *MappedFileBuilder) UnindentAndAdd(begin, end int) {
	if begin >= end {
		return
	}
	lines := splitLines(b.original.Source, begin, end)

	minWidth := -1
	var ref string
	for _, line := range lines {
		if line.blank {
			continue
		}
		if width := IndentWidth(line.indent); minWidth < 0 || width < minWidth {
			minWidth = width
			ref = line.indent
		}
	}
	if minWidth < 0 {
		minWidth = 0
	}

	mixed := false
	for _, line := range lines {
		if !line.blank && !strings.HasPrefix(line.indent, ref) {
			mixed = true
			break
		}
	}

	section := mappedSection{originalPos: begin, ourPos: b.Pos(), kind: sectionIndented}
	var out strings.Builder
	for _, line := range lines {
		entry := indentedLine{ourStart: b.Pos() + out.Len(), lineStart: line.begin}

		switch {
		case line.blank:
			entry.originalStart = line.begin + len(line.indent)
			if strings.HasSuffix(line.body, "\n") {
				out.WriteByte('\n')
			}
		case !mixed:
			entry.originalStart = line.begin + len(ref)
			out.WriteString(line.indent[len(ref):])
			out.WriteString(line.body)
		default:
			stripped, padding := stripColumns(line.indent, minWidth)
			entry.inserted = padding
			entry.originalStart = line.begin + stripped
			out.WriteString(strings.Repeat(" ", padding))
			out.WriteString(line.indent[stripped:])
			out.WriteString(line.body)
		}
		section.lines = append(section.lines, entry)
	}

	b.addSection(section)
	b.buf.WriteString(out.String())
}

// stripColumns returns how many bytes of indent cover width columns and
// how many spaces are needed to restore the columns a tab overshot.
func stripColumns(indent string, width int) (int, int) {
	col := 0
	i := 0
	for i < len(indent) && col < width {
		if indent[i] == '\t' {
			col = (col/TabWidth + 1) * TabWidth
		} else {
			col++
		}
		i++
	}
	return i, col - width
}

// Unindent is the string form of UnindentAndAdd, for callers that don't
// need position mapping.
func Unindent(text string) string {
	f := New("", text, 0)
	b := NewMappedFileBuilder()
	b.Start(f)
	b.UnindentAndAdd(0, len(text))
	return b.Release().Source
}
