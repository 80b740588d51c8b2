// Package post pretty prints generated Boostbook. Block elements are put
// on their own lines and indented, text is reflowed to the line width
// and verbatim elements are copied untouched.
package post

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrPostProcess is returned when the markup cannot be formatted, most
// often because its tags do not balance.
var ErrPostProcess = errors.New("post-processing failed")

// Options controls the layout.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int

	// LineWidth is the column text is wrapped at. Zero disables wrapping.
	LineWidth int
}

//nolint:gochecknoglobals
var blockTags = toSet(`
	article book chapter library part appendix preface qandadiv qandaset reference set
	articleinfo bookinfo chapterinfo libraryinfo partinfo appendixinfo prefaceinfo
	qandadivinfo qandasetinfo referenceinfo setinfo
	librarypurpose articlepurpose bookpurpose chapterpurpose
	librarycategory articlecategory bookcategory chaptercategory
	section title para simpara bridgehead anchor
	itemizedlist orderedlist listitem variablelist varlistentry term
	table informaltable tgroup thead tbody row entry
	note tip important caution warning sidebar blockquote
	calloutlist callout
	authorgroup author firstname surname copyright year holder legalnotice biblioid
	xi:include`)

//nolint:gochecknoglobals
var verbatimTags = toSet("programlisting literallayout screen synopsis")

func toSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Format returns markup laid out according to opts.
func Format(markup string, opts Options) (string, error) {
	tokens, err := tokenize(markup)
	if err != nil {
		return "", err
	}
	p := &printer{opts: opts, tokens: tokens}
	if err := p.run(); err != nil {
		return "", err
	}
	return p.out.String(), nil
}

type tokenKind uint8

const (
	tokText tokenKind = iota
	tokStart
	tokEnd
	tokEmpty
	tokSpecial
)

type token struct {
	kind tokenKind
	name string
	text string
}

func (t token) isBlock() bool {
	return t.kind != tokText && t.kind != tokSpecial && (blockTags[t.name] || verbatimTags[t.name])
}

func tokenize(markup string) ([]token, error) {
	var tokens []token
	for pos := 0; pos < len(markup); {
		lt := strings.IndexByte(markup[pos:], '<')
		if lt != 0 {
			end := len(markup)
			if lt > 0 {
				end = pos + lt
			}
			tokens = append(tokens, token{kind: tokText, text: markup[pos:end]})
			pos = end
			continue
		}
		end, tok, err := readTag(markup, pos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		pos = end
	}
	return tokens, nil
}

func readTag(markup string, pos int) (int, token, error) {
	rest := markup[pos:]
	for _, special := range [][2]string{{"<!--", "-->"}, {"<![CDATA[", "]]>"}, {"<?", "?>"}, {"<!", ">"}} {
		if !strings.HasPrefix(rest, special[0]) {
			continue
		}
		end := strings.Index(rest[len(special[0]):], special[1])
		if end < 0 {
			return 0, token{}, fmt.Errorf("unterminated %q: %w", special[0], ErrPostProcess)
		}
		n := len(special[0]) + end + len(special[1])
		return pos + n, token{kind: tokSpecial, text: rest[:n]}, nil
	}

	var quote byte
	for i := 1; i < len(rest); i++ {
		switch c := rest[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			text := rest[:i+1]
			tok := token{kind: tokStart, text: text}
			inner := text[1 : len(text)-1]
			switch {
			case strings.HasPrefix(inner, "/"):
				tok.kind = tokEnd
				inner = inner[1:]
			case strings.HasSuffix(inner, "/"):
				tok.kind = tokEmpty
				inner = inner[:len(inner)-1]
			}
			if fields := strings.Fields(inner); len(fields) > 0 {
				tok.name = fields[0]
			}
			return pos + i + 1, tok, nil
		}
	}
	return 0, token{}, fmt.Errorf("unterminated tag at offset %d: %w", pos, ErrPostProcess)
}

type printer struct {
	opts   Options
	tokens []token
	out    strings.Builder
	stack  []string
	depth  int
	inline []string
}

func (p *printer) run() error {
	for i := 0; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch {
		case tok.kind == tokSpecial && len(p.stack) == 0:
			p.flush()
			p.line(tok.text)
		case !tok.isBlock():
			if err := p.track(tok); err != nil {
				return err
			}
			p.inline = append(p.inline, tok.text)
		case tok.kind == tokStart && verbatimTags[tok.name]:
			end, err := p.matching(i)
			if err != nil {
				return err
			}
			p.flush()
			p.writeIndent()
			for _, t := range p.tokens[i : end+1] {
				p.out.WriteString(t.text)
			}
			p.out.WriteByte('\n')
			i = end
		case tok.kind == tokStart:
			p.flush()
			if end, ok := p.compact(i); ok {
				i = end
				continue
			}
			p.line(tok.text)
			p.stack = append(p.stack, tok.name)
			p.depth++
		case tok.kind == tokEnd:
			p.flush()
			if err := p.pop(tok.name); err != nil {
				return err
			}
			p.depth--
			p.line(tok.text)
		default:
			p.flush()
			p.line(tok.text)
		}
	}
	p.flush()
	if len(p.stack) > 0 {
		return fmt.Errorf("unclosed <%s>: %w", p.stack[len(p.stack)-1], ErrPostProcess)
	}
	return nil
}

// track keeps inline tags balanced.
func (p *printer) track(tok token) error {
	switch tok.kind {
	case tokStart:
		p.stack = append(p.stack, tok.name)
	case tokEnd:
		return p.pop(tok.name)
	}
	return nil
}

func (p *printer) pop(name string) error {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1] != name {
		return fmt.Errorf("mismatched </%s>: %w", name, ErrPostProcess)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

// matching returns the index of the end tag closing the start tag at i.
func (p *printer) matching(i int) (int, error) {
	name := p.tokens[i].name
	depth := 0
	for j := i; j < len(p.tokens); j++ {
		t := p.tokens[j]
		if t.name != name {
			continue
		}
		switch t.kind {
		case tokStart:
			depth++
		case tokEnd:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, fmt.Errorf("unclosed <%s>: %w", name, ErrPostProcess)
}

// compact prints a block element holding only inline content on one line
// when it fits.
func (p *printer) compact(i int) (int, bool) {
	end, err := p.matching(i)
	if err != nil {
		return 0, false
	}
	var b strings.Builder
	depth := 0
	for _, t := range p.tokens[i+1 : end] {
		if t.isBlock() {
			return 0, false
		}
		switch t.kind {
		case tokStart:
			depth++
		case tokEnd:
			depth--
		}
		if depth < 0 {
			return 0, false
		}
		b.WriteString(t.text)
	}
	if depth != 0 {
		return 0, false
	}
	text := p.tokens[i].text + strings.Join(words(b.String()), " ") + p.tokens[end].text
	if p.opts.LineWidth > 0 && p.indentWidth()+utf8.RuneCountInString(text) > p.opts.LineWidth {
		return 0, false
	}
	p.line(text)
	return end, true
}

func (p *printer) indentWidth() int {
	return p.depth * p.opts.Indent
}

func (p *printer) writeIndent() {
	p.out.WriteString(strings.Repeat(" ", p.indentWidth()))
}

func (p *printer) line(text string) {
	p.writeIndent()
	p.out.WriteString(text)
	p.out.WriteByte('\n')
}

// flush reflows pending inline content.
func (p *printer) flush() {
	ws := words(strings.Join(p.inline, ""))
	p.inline = p.inline[:0]
	if len(ws) == 0 {
		return
	}
	width := p.opts.LineWidth - p.indentWidth()
	var line strings.Builder
	lineLen := 0
	for _, w := range ws {
		n := utf8.RuneCountInString(w)
		if lineLen > 0 && p.opts.LineWidth > 0 && lineLen+1+n > width {
			p.line(line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(w)
		lineLen += n
	}
	p.line(line.String())
}

// words splits text at whitespace outside tags.
func words(text string) []string {
	var ws []string
	start := -1
	inTag := false
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case inTag && (c == '"' || c == '\''):
			quote = c
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case !inTag && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			if start >= 0 {
				ws = append(ws, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		ws = append(ws, text[start:])
	}
	return ws
}
