package quickbook

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/value"
)

// flags describe what a parse context accepts.
type flags int

const (
	// allowBlock accepts block elements; paragraphs are closed around them.
	allowBlock flags = 1 << iota

	// allowSection accepts [section] and [endsect].
	allowSection

	// inConditional accepts definitions inside phrase content.
	inConditional
)

const (
	topLevel    = allowBlock | allowSection
	nestedBlock = allowBlock
	phraseOnly  = flags(0)
)

// parser walks one byte range of a file. Nested constructs get their own
// parser over a sub-range; all of them share the State.
type parser struct {
	s     *State
	f     *files.File
	src   string
	start int
	pos   int
	end   int
	flags flags

	// block state
	lists   []listFrame
	nested  bool
	base    int
	baseSet bool
	para    bool
	paraTag string
}

func newParser(s *State, f *files.File, begin, end int, fl flags) *parser {
	return &parser{
		s:       s,
		f:       f,
		src:     f.Source,
		start:   begin,
		pos:     begin,
		end:     end,
		flags:   fl,
		paraTag: "para",
	}
}

func (p *parser) midLine() bool {
	return p.start > 0 && p.src[p.start-1] != '\n'
}

// lineEnd returns the offset of the newline ending the line at pos, or
// the end of the range.
func (p *parser) lineEnd(pos int) int {
	if i := strings.IndexByte(p.src[pos:p.end], '\n'); i >= 0 {
		return pos + i
	}
	return p.end
}

func (p *parser) nextLine(lineEnd int) int {
	if lineEnd < p.end {
		return lineEnd + 1
	}
	return p.end
}

func (p *parser) writePhrase(text string) {
	p.s.phraseTop().WriteString(text)
}

func (p *parser) writeBlock(text string) {
	p.s.outTop().WriteString(text)
}

// blockRange parses [begin, end) as block content into fresh buffers and
// returns the markup.
func (p *parser) blockRange(f *files.File, begin, end int, fl flags) string {
	p.s.pushOutput()
	c := newParser(p.s, f, begin, end, fl)
	c.nested = true
	c.blocks()
	block, phrase := p.s.popOutput()
	return block + phrase
}

// phraseRange parses [begin, end) as inline content and returns the
// markup.
func (p *parser) phraseRange(f *files.File, begin, end int, fl flags) string {
	p.s.pushPhrase()
	c := newParser(p.s, f, begin, end, fl&^(allowBlock|allowSection))
	c.phrase(stopEnd)
	return p.s.popPhrase()
}

// blocks is the block grammar: paragraphs, lists, code and block
// elements, line by line.
func (p *parser) blocks() {
	if p.midLine() {
		p.firstLine()
	}
	for p.pos < p.end && !p.s.fatal {
		start := p.pos
		p.line()
		if p.pos <= start {
			p.s.fail(ErrGrammar, p.f, start, "Syntax error")
			break
		}
	}
	p.endParagraph()
	p.closeLists(0)
}

// firstLine handles text that shares a line with the element that
// opened the range. It can only be paragraph text.
func (p *parser) firstLine() {
	lineEnd := p.lineEnd(p.pos)
	if isBlank(p.src[p.pos:lineEnd]) {
		p.pos = p.nextLine(lineEnd)
		return
	}
	for p.pos < lineEnd && isBlankChar(p.src[p.pos]) {
		p.pos++
	}
	p.para = true
	p.phrase(stopLine)
}

func (p *parser) line() {
	lineStart := p.pos
	lineEnd := p.lineEnd(lineStart)
	indentEnd := lineStart
	for indentEnd < lineEnd && isBlankChar(p.src[indentEnd]) {
		indentEnd++
	}
	if indentEnd == lineEnd {
		p.endParagraph()
		p.pos = p.nextLine(lineEnd)
		return
	}

	width := files.IndentWidth(p.src[lineStart:indentEnd])
	if p.nested && !p.baseSet {
		p.base, p.baseSet = width, true
	}
	rel := max(width-p.base, 0)
	content := p.src[indentEnd:lineEnd]

	if mark, contentStart, ok := p.listMarker(indentEnd, lineEnd); ok && p.canStartItem(rel) {
		p.listItem(mark, indentEnd, rel, contentStart)
		return
	}

	threshold := 0
	if len(p.lists) > 0 {
		if p.para {
			p.phrase(stopLine)
			return
		}
		for len(p.lists) > 0 && rel < p.lists[len(p.lists)-1].indent2 {
			p.closeList()
		}
		if len(p.lists) > 0 {
			threshold = p.lists[len(p.lists)-1].indent2
		}
	}

	switch {
	case rel > threshold && !p.para:
		p.indentedCode(threshold)
	case strings.HasPrefix(content, "```") && !p.para:
		p.fencedCode(indentEnd)
	case rel == threshold && !p.para && isRule(content):
		p.endParagraph()
		p.writeBlock("<para/>\n")
		p.pos = p.nextLine(lineEnd)
	default:
		p.pos = indentEnd
		p.para = true
		p.phrase(stopLine)
	}
}

func isRule(content string) bool {
	return strings.HasPrefix(content, "----") && isBlank(strings.TrimLeft(content, "-"))
}

// endParagraph wraps any pending inline markup in a paragraph.
func (p *parser) endParagraph() {
	buf := p.s.phraseTop()
	text := buf.String()
	buf.Reset()
	if !isBlank(text) {
		tag := p.paraTag
		p.writeBlock("<" + tag + ">\n" + strings.TrimSpace(text) + "\n</" + tag + ">\n")
	}
	p.para = false
	p.paraTag = "para"
}

// paragraphEmpty reports whether nothing is pending in the paragraph.
func (p *parser) paragraphEmpty() bool {
	return isBlank(p.s.phraseTop().String())
}

func (p *parser) span(begin, end int) files.Span {
	return files.Span{File: p.f, Begin: begin, End: end}
}

// finish logs values a production left unconsumed.
func (p *parser) finish(c *value.Consumer, what string) {
	if err := c.Finish(); err != nil {
		p.s.logger.Debug("unconsumed values", "in", what, "err", err)
	}
}
