// Package files provides the source model for the quickbook compiler:
// loaded source files, a caching loader and mapped files whose content is
// assembled from fragments of another file while keeping every offset
// traceable to its original line and column.
package files

import (
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column in a source file.
// Columns count runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// File is one loaded source unit.
type File struct {
	// Path is the file path as it should appear in diagnostics.
	Path string

	// Source is the normalized UTF-8 content with LF line endings.
	Source string

	// Version is the quickbook format version (major*100+minor) the file
	// was parsed with. Zero until the document header has been read.
	Version int

	// IsCodeSnippets is set for files loaded by [import] for their snippets.
	IsCodeSnippets bool

	lineStarts []int
	mapping    *mapping
}

// New creates a file from already normalized source text.
func New(path, source string, version int) *File {
	return &File{Path: path, Source: source, Version: version}
}

// Span is a half-open byte range of a file.
type Span struct {
	File  *File
	Begin int
	End   int
}

// Text returns the source text covered by the span.
func (s Span) Text() string {
	if s.File == nil {
		return ""
	}
	return s.File.Source[s.Begin:s.End]
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Position returns the original position of the start of the span.
func (s Span) Position() Position {
	if s.File == nil {
		return Position{}
	}
	return s.File.PositionOf(s.Begin)
}

// IsMapped reports whether the file content was synthesized by a
// MappedFileBuilder.
func (f *File) IsMapped() bool {
	return f.mapping != nil
}

// Original returns the file this file was mapped from, or the file itself.
func (f *File) Original() *File {
	if f.mapping == nil {
		return f
	}
	return f.mapping.original.Original()
}

// PositionOf converts a byte offset in the file to a position in the
// original source. Offsets past the end are clamped.
func (f *File) PositionOf(offset int) Position {
	if f.mapping != nil {
		return f.mapping.positionOf(offset)
	}
	return f.localPosition(offset)
}

// OriginalOffset translates an offset in this file to an offset in the
// outermost original file.
func (f *File) OriginalOffset(offset int) int {
	if f.mapping == nil {
		return clamp(offset, 0, len(f.Source))
	}
	return f.mapping.original.OriginalOffset(f.mapping.toOriginal(offset))
}

func (f *File) localPosition(offset int) Position {
	offset = clamp(offset, 0, len(f.Source))
	starts := f.lines()

	// Index of the last line starting at or before offset.
	idx := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}

	return Position{
		Line:   idx + 1,
		Column: utf8.RuneCountInString(f.Source[starts[idx]:offset]) + 1,
	}
}

func (f *File) lines() []int {
	if f.lineStarts != nil {
		return f.lineStarts
	}
	starts := []int{0}
	for i := 0; i < len(f.Source); i++ {
		if f.Source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	f.lineStarts = starts
	return starts
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lines())
}

// LineContent returns the content of a 1-based line, excluding the newline.
func (f *File) LineContent(line int) string {
	starts := f.lines()
	if line < 1 || line > len(starts) {
		return ""
	}
	begin := starts[line-1]
	end := len(f.Source)
	if line < len(starts) {
		end = starts[line] - 1
	}
	return f.Source[begin:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
