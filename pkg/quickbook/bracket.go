package quickbook

import (
	"strings"
)

// element is a parsed "[name:id body]" occurrence.
type element struct {
	info  *elementInfo
	open  int
	name  string
	id    string
	body  int
	close int
}

// bodyRange returns the trimmed body.
func (e *element) bodyRange(p *parser) (int, int) {
	return p.trimRange(e.body, e.close)
}

const punctElements = "*'_^-\"~:#@$?`"

// bracket dispatches a '[': comment, element, template call or literal.
func (p *parser) bracket() {
	open := p.pos
	if strings.HasPrefix(p.src[open:p.end], "[/") {
		if closing := p.matchBracket(open); closing >= 0 {
			p.pos = closing + 1
			return
		}
	}

	closing := p.matchBracket(open)
	if closing < 0 {
		p.writePhrase("[")
		p.pos++
		return
	}

	name, nameEnd := p.elementName(open + 1)
	if info := lookupElement(name); info != nil && p.s.since(info.minVersion) && p.nameTerminated(nameEnd, info) {
		e := &element{info: info, open: open, name: name, body: nameEnd, close: closing}
		if info.takesID && nameEnd < closing && p.src[nameEnd] == ':' {
			idEnd := nameEnd + 1
			for idEnd < closing && !isSpace(p.src[idEnd]) && p.src[idEnd] != '[' {
				idEnd++
			}
			e.id = p.src[nameEnd+1 : idEnd]
			e.body = idEnd
		}
		if !p.allowed(info.class) {
			p.misplaced(e)
			return
		}
		p.pos = closing + 1
		info.handler(p, e)
		return
	}

	if name != "" && isIdentStart(name[0]) {
		if sym := p.findTemplate(name); sym != nil && p.nameTerminated(nameEnd, nil) {
			p.pos = closing + 1
			p.callTemplate(sym, open, nameEnd, closing, false)
			return
		}
	}

	p.literalBracket(open, closing)
}

// elementName reads the name after '[': one punctuation character or a
// word of letters, digits, '_' and '+'.
func (p *parser) elementName(pos int) (string, int) {
	if pos >= p.end {
		return "", pos
	}
	if strings.IndexByte(punctElements, p.src[pos]) >= 0 {
		return p.src[pos : pos+1], pos + 1
	}
	end := pos
	for end < p.end && (isIdentChar(p.src[end]) || p.src[end] == '+' || p.src[end] == '-' && end > pos) {
		end++
	}
	return p.src[pos:end], end
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// nameTerminated checks what follows a word name: whitespace, ']', '['
// or, for elements taking ids, ':'.
func (p *parser) nameTerminated(pos int, info *elementInfo) bool {
	if pos >= p.end {
		return false
	}
	c := p.src[pos]
	if info != nil && len(info.name) == 1 && strings.IndexByte(punctElements, info.name[0]) >= 0 {
		return true
	}
	return isSpace(c) || c == ']' || c == '[' || c == ':' && info != nil && info.takesID
}

// allowed applies the element classification to the current context.
func (p *parser) allowed(class elementClass) bool {
	switch class {
	case classSectionBlock:
		return p.flags&allowSection != 0 && len(p.lists) == 0
	case classNestedBlock:
		return p.flags&allowBlock != 0
	case classConditionalOrBlock:
		return p.flags&(allowBlock|inConditional) != 0
	default:
		return true
	}
}

// misplaced handles an element used where its class is not allowed.
// Before 1.7 the bracket is taken literally and parsing continues inside
// it; from 1.7 it is an error.
func (p *parser) misplaced(e *element) {
	if !p.s.since(107) {
		p.writePhrase("[")
		p.pos = e.open + 1
		return
	}
	what := "Block"
	if e.info.class == classSectionBlock {
		what = "Section"
	}
	p.s.errorAt(p.f, e.open, "%s element '%s' not allowed here", what, e.name)
	p.writePhrase(`<phrase role="error">` + encodeText(p.src[e.open:e.close+1]) + "</phrase>")
	p.pos = e.close + 1
}

// literalBracket copies an unrecognised bracket through, parsing what is
// inside it.
func (p *parser) literalBracket(open, closing int) {
	p.writePhrase("[")
	p.writePhrase(p.phraseRange(p.f, open+1, closing, p.flags))
	p.writePhrase("]")
	p.pos = closing + 1
}
