package quickbook

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/quickbook/pkg/highlight"
)

type stop int

const (
	// stopEnd parses to the end of the range.
	stopEnd stop = iota

	// stopLine parses to the end of the current line, consuming the
	// newline. Elements may still span lines.
	stopLine
)

// phrase is the inline grammar.
func (p *parser) phrase(until stop) {
	for p.pos < p.end && !p.s.fatal {
		c := p.src[p.pos]
		switch {
		case c == '\n' && until == stopLine:
			p.writePhrase("\n")
			p.pos++
			return
		case c == '[':
			p.bracket()
		case c == '\\':
			p.escape()
		case c == '\'' && strings.HasPrefix(p.src[p.pos:p.end], "'''"):
			p.rawEscape()
		case c == '`':
			p.inlineCode()
		default:
			if p.macro() || p.simpleMarkup() {
				continue
			}
			p.text()
		}
	}
}

// text copies one identifier run or one character.
func (p *parser) text() {
	end := p.pos + 1
	if isIdentChar(p.src[p.pos]) {
		for end < p.end && isIdentChar(p.src[end]) {
			end++
		}
	} else if p.src[p.pos] >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:p.end])
		end = p.pos + size
	}
	p.writePhrase(encodeText(p.src[p.pos:end]))
	p.pos = end
}

// macro expands the longest macro whose name starts here.
func (p *parser) macro() bool {
	c := p.src[p.pos]
	if isSpace(c) || p.pos > p.start && isAlnum(p.src[p.pos-1]) && isAlnum(c) {
		return false
	}
	n, expansion, ok := p.s.macros.match(p.src[p.pos:p.end])
	if !ok {
		return false
	}
	p.writePhrase(expansion)
	p.pos += n
	return true
}

// escape handles backslash escapes: \n is a line break, \uXXXX and
// \UXXXXXXXX are code points, anything else is taken literally.
func (p *parser) escape() {
	rest := p.src[p.pos+1 : p.end]
	switch {
	case rest == "":
		p.writePhrase("\\")
		p.pos++
	case rest[0] == 'n':
		p.writePhrase("<sbr/>")
		p.pos += 2
	case rest[0] == 'u' && p.codePoint(rest[1:], 4):
		p.pos += 6
	case rest[0] == 'U' && p.codePoint(rest[1:], 8):
		p.pos += 10
	default:
		_, size := utf8.DecodeRuneInString(rest)
		p.writePhrase(encodeText(rest[:size]))
		p.pos += 1 + size
	}
}

func (p *parser) codePoint(hex string, digits int) bool {
	if len(hex) < digits {
		return false
	}
	v, err := strconv.ParseUint(hex[:digits], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return false
	}
	p.writePhrase(encodeText(string(rune(v))))
	return true
}

// rawEscape copies '''...''' through unencoded.
func (p *parser) rawEscape() {
	begin := p.pos + 3
	end := strings.Index(p.src[begin:p.end], "'''")
	if end < 0 {
		p.writePhrase("'''")
		p.pos = begin
		return
	}
	p.writePhrase(p.src[begin : begin+end])
	p.pos = begin + end + 3
}

// inlineCode renders `code` (one line) or ``code`` (any length).
func (p *parser) inlineCode() {
	rest := p.src[p.pos:p.end]
	var begin, end, next int
	switch {
	case strings.HasPrefix(rest, "``"):
		i := strings.Index(rest[2:], "``")
		if i < 0 {
			p.writePhrase("``")
			p.pos += 2
			return
		}
		begin, end, next = p.pos+2, p.pos+2+i, p.pos+4+i
	default:
		i := strings.IndexAny(rest[1:], "`\n")
		if i < 0 || rest[1+i] != '`' || i == 0 {
			p.writePhrase("`")
			p.pos++
			return
		}
		begin, end, next = p.pos+1, p.pos+1+i, p.pos+2+i
	}
	code := highlight.ForMode(p.s.sourceMode).Highlight(p.src[begin:end], highlight.Hooks{})
	p.writePhrase("<code>" + code + "</code>")
	p.pos = next
}

var simpleMarkupTags = map[byte][2]string{ //nolint:gochecknoglobals
	'*': {`<emphasis role="bold">`, "</emphasis>"},
	'/': {"<emphasis>", "</emphasis>"},
	'_': {`<emphasis role="underline">`, "</emphasis>"},
	'=': {"<literal>", "</literal>"},
}

// simpleMarkup handles *bold*, /italic/, _underline_ and =teletype=. The
// marks must hug the text, sit on one line and not touch words outside.
func (p *parser) simpleMarkup() bool {
	mark := p.src[p.pos]
	tags, ok := simpleMarkupTags[mark]
	if !ok {
		return false
	}
	if p.pos > p.start {
		prev := p.src[p.pos-1]
		if isAlnum(prev) || prev == mark {
			return false
		}
	}
	first := p.pos + 1
	if first >= p.end || isSpace(p.src[first]) || p.src[first] == mark {
		return false
	}
	lineEnd := p.lineEnd(first)
	for i := first + 1; i < lineEnd; i++ {
		if p.src[i] != mark {
			continue
		}
		if isSpace(p.src[i-1]) {
			continue
		}
		if i+1 < p.end && (isAlnum(p.src[i+1]) || p.src[i+1] == mark) {
			continue
		}
		content := p.src[first:i]
		if strings.ContainsAny(content, "[]") {
			return false
		}
		p.writePhrase(tags[0] + encodeText(content) + tags[1])
		p.pos = i + 1
		return true
	}
	return false
}

// matchBracket returns the index of the ']' closing the '[' at open, or
// -1. Escapes, raw escapes and inline code are skipped.
func (p *parser) matchBracket(open int) int {
	depth := 0
	src := p.src[:p.end]
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\'':
			if strings.HasPrefix(src[i:], "'''") {
				if j := strings.Index(src[i+3:], "'''"); j >= 0 {
					i += j + 5
				}
			}
		case '`':
			if strings.HasPrefix(src[i:], "``") {
				if j := strings.Index(src[i+2:], "``"); j >= 0 {
					i += j + 3
				}
				continue
			}
			if j := strings.IndexAny(src[i+1:], "`\n"); j > 0 && src[i+1+j] == '`' {
				i += j + 1
			}
		}
	}
	return -1
}

// skipSpace moves past whitespace.
func (p *parser) skipSpace(pos, end int) int {
	for pos < end && isSpace(p.src[pos]) {
		pos++
	}
	return pos
}

// trimRange trims whitespace from both ends of [begin, end).
func (p *parser) trimRange(begin, end int) (int, int) {
	begin = p.skipSpace(begin, end)
	for end > begin && isSpace(p.src[end-1]) {
		end--
	}
	return begin, end
}
