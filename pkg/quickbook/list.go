package quickbook

import "github.com/yaklabco/quickbook/pkg/files"

// listFrame is one level of a syntactic list.
type listFrame struct {
	mark byte

	// indent is the column of the item marker, indent2 the column its
	// text starts at. Both are relative to the block's base.
	indent  int
	indent2 int
}

// listMarker recognises "* " and "# " after the indentation.
func (p *parser) listMarker(indentEnd, lineEnd int) (byte, int, bool) {
	if indentEnd+1 >= lineEnd {
		return 0, 0, false
	}
	mark := p.src[indentEnd]
	if mark != '*' && mark != '#' || !isBlankChar(p.src[indentEnd+1]) {
		return 0, 0, false
	}
	contentStart := indentEnd + 1
	for contentStart < lineEnd && isBlankChar(p.src[contentStart]) {
		contentStart++
	}
	if contentStart == lineEnd {
		return 0, 0, false
	}
	return mark, contentStart, true
}

func (p *parser) canStartItem(rel int) bool {
	if len(p.lists) > 0 {
		return true
	}
	return rel == 0 && !p.para
}

// listItem starts an item, opening or closing lists as its indentation
// demands.
func (p *parser) listItem(mark byte, markPos, rel, contentStart int) {
	lineStart := markPos
	for lineStart > 0 && p.src[lineStart-1] != '\n' {
		lineStart--
	}
	prefix := []byte(p.src[lineStart:contentStart])
	for i := range prefix {
		if prefix[i] != '\t' {
			prefix[i] = ' '
		}
	}
	indent2 := max(files.IndentWidth(string(prefix))-p.base, rel+1)

	p.endParagraph()
	switch {
	case len(p.lists) == 0 || rel > p.lists[len(p.lists)-1].indent:
		p.openList(mark, rel, indent2)
	default:
		for len(p.lists) > 1 && p.lists[len(p.lists)-1].indent > rel {
			p.closeList()
		}
		top := &p.lists[len(p.lists)-1]
		if top.mark != mark {
			p.s.errorAt(p.f, markPos, "Mixed list marks, using '%c' for the whole list", top.mark)
		}
		top.indent2 = indent2
		p.writeBlock("</listitem>\n<listitem>\n")
	}

	p.pos = contentStart
	p.paraTag = "simpara"
	p.para = true
	p.phrase(stopLine)
}

func listTag(mark byte) string {
	if mark == '#' {
		return "orderedlist"
	}
	return "itemizedlist"
}

func (p *parser) openList(mark byte, rel, indent2 int) {
	p.lists = append(p.lists, listFrame{mark: mark, indent: rel, indent2: indent2})
	p.writeBlock("<" + listTag(mark) + ">\n<listitem>\n")
}

func (p *parser) closeList() {
	p.endParagraph()
	top := p.lists[len(p.lists)-1]
	p.lists = p.lists[:len(p.lists)-1]
	p.writeBlock("</listitem>\n</" + listTag(top.mark) + ">\n")
}

// closeLists closes lists until depth remain.
func (p *parser) closeLists(depth int) {
	for len(p.lists) > depth {
		p.closeList()
	}
}
