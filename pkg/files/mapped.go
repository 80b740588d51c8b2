package files

import (
	"sort"
	"strings"
)

type sectionKind uint8

const (
	// sectionNormal is a verbatim slice of the original file.
	sectionNormal sectionKind = iota

	// sectionEmpty is generated text with a single fixed original position.
	sectionEmpty

	// sectionIndented is original text with leading indentation removed.
	sectionIndented
)

// indentedLine records one physical line of an indented section.
type indentedLine struct {
	// ourStart is the offset of the line in the mapped file.
	ourStart int

	// inserted is the number of padding spaces written before the
	// retained text when a tab straddled the stripped width.
	inserted int

	// originalStart is the original offset of the first retained byte.
	originalStart int

	// lineStart is the original offset of the start of the line.
	lineStart int
}

type mappedSection struct {
	originalPos int
	ourPos      int
	kind        sectionKind

	// lines holds one entry per consumed newline plus one, for indented
	// sections only.
	lines []indentedLine
}

type mapping struct {
	original *File
	sections []mappedSection
}

func (m *mapping) sectionAt(offset int) *mappedSection {
	idx := sort.Search(len(m.sections), func(i int) bool {
		return m.sections[i].ourPos > offset
	}) - 1
	if idx < 0 {
		return nil
	}
	return &m.sections[idx]
}

// toOriginal maps an offset in the mapped file to an offset in the
// original file.
func (m *mapping) toOriginal(offset int) int {
	section := m.sectionAt(offset)
	if section == nil {
		return 0
	}

	switch section.kind {
	case sectionEmpty:
		return section.originalPos
	case sectionIndented:
		return section.indentedToOriginal(offset)
	default:
		return section.originalPos + offset - section.ourPos
	}
}

func (s *mappedSection) indentedToOriginal(offset int) int {
	idx := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i].ourStart > offset
	}) - 1
	if idx < 0 {
		return s.originalPos
	}
	line := s.lines[idx]
	rel := offset - line.ourStart
	if rel < line.inserted {
		// The padding doesn't exist in the original; use the line start.
		return line.lineStart
	}
	return line.originalStart + rel - line.inserted
}

func (m *mapping) positionOf(offset int) Position {
	return m.original.PositionOf(m.toOriginal(offset))
}

// MappedFileBuilder assembles a synthetic file from fragments of an
// original file.
type MappedFileBuilder struct {
	original *File
	buf      strings.Builder
	sections []mappedSection
}

// NewMappedFileBuilder returns an unstarted builder.
func NewMappedFileBuilder() *MappedFileBuilder {
	return &MappedFileBuilder{}
}

// Start begins a fresh synthetic file backed by original.
func (b *MappedFileBuilder) Start(original *File) {
	b.original = original
	b.buf.Reset()
	b.sections = nil
}

// Original returns the file the builder maps back to.
func (b *MappedFileBuilder) Original() *File {
	return b.original
}

// Pos returns the current length of the synthetic file.
func (b *MappedFileBuilder) Pos() int {
	return b.buf.Len()
}

// Empty reports whether nothing has been added yet.
func (b *MappedFileBuilder) Empty() bool {
	return b.buf.Len() == 0
}

// Text returns the content built so far.
func (b *MappedFileBuilder) Text() string {
	return b.buf.String()
}

// Release returns the finished file and resets the builder.
func (b *MappedFileBuilder) Release() *File {
	f := &File{
		Source: b.buf.String(),
		mapping: &mapping{
			original: b.original,
			sections: b.sections,
		},
	}
	if b.original != nil {
		f.Path = b.original.Path
		f.Version = b.original.Version
		f.IsCodeSnippets = b.original.IsCodeSnippets
	}
	b.original = nil
	b.buf.Reset()
	b.sections = nil
	return f
}

func (b *MappedFileBuilder) addSection(s mappedSection) {
	if n := len(b.sections); n > 0 {
		last := &b.sections[n-1]
		if last.ourPos == s.ourPos {
			*last = s
			return
		}
		// Contiguous verbatim slices collapse into one section.
		if last.kind == sectionNormal && s.kind == sectionNormal &&
			last.originalPos+(s.ourPos-last.ourPos) == s.originalPos {
			return
		}
	}
	b.sections = append(b.sections, s)
}

// Add appends a verbatim slice of the original file.
func (b *MappedFileBuilder) Add(span Span) {
	b.AddRange(span.Begin, span.End)
}

// AddRange appends original.Source[begin:end] verbatim.
func (b *MappedFileBuilder) AddRange(begin, end int) {
	if begin >= end {
		return
	}
	b.addSection(mappedSection{originalPos: begin, ourPos: b.Pos(), kind: sectionNormal})
	b.buf.WriteString(b.original.Source[begin:end])
}

// AddAtPos appends generated text that has no real source backing. All
// of it maps to originalPos.
func (b *MappedFileBuilder) AddAtPos(text string, originalPos int) {
	if text == "" {
		return
	}
	b.addSection(mappedSection{originalPos: originalPos, ourPos: b.Pos(), kind: sectionEmpty})
	b.buf.WriteString(text)
}

// AddBuilder splices the content of another builder over the same
// original file, adjusting its section offsets.
func (b *MappedFileBuilder) AddBuilder(other *MappedFileBuilder, begin, end int) {
	if begin >= end {
		return
	}
	content := other.buf.String()
	delta := b.Pos() - begin

	for i, section := range other.sections {
		sectionEnd := len(content)
		if i+1 < len(other.sections) {
			sectionEnd = other.sections[i+1].ourPos
		}
		if sectionEnd <= begin || section.ourPos >= end {
			continue
		}

		adjusted := mappedSection{
			originalPos: section.originalPos,
			ourPos:      section.ourPos + delta,
			kind:        section.kind,
		}
		if section.ourPos < begin {
			adjusted.ourPos = b.Pos()
			if section.kind == sectionNormal {
				adjusted.originalPos += begin - section.ourPos
			}
		}
		if section.kind == sectionIndented {
			adjusted.lines = spliceLines(section.lines, begin, end, delta)
		}
		b.addSection(adjusted)
	}

	b.buf.WriteString(content[begin:end])
}

func spliceLines(lines []indentedLine, begin, end, delta int) []indentedLine {
	var result []indentedLine
	for i, line := range lines {
		lineEnd := end
		if i+1 < len(lines) {
			lineEnd = lines[i+1].ourStart
		}
		if lineEnd <= begin && i+1 < len(lines) {
			continue
		}
		if line.ourStart >= end {
			break
		}
		if line.ourStart < begin {
			rel := begin - line.ourStart
			if rel < line.inserted {
				line.inserted -= rel
			} else {
				line.originalStart += rel - line.inserted
				line.inserted = 0
			}
			line.ourStart = begin
		}
		line.ourStart += delta
		result = append(result, line)
	}
	return result
}
