package snippets

import "strings"

const docstring = `"""`

func (x *extractor) scanPython() {
	src := x.src
	pos := 0
	for pos < len(src) {
		if next := x.lineCommon(pos, "#"); next >= 0 {
			pos = next
			continue
		}
		if after, ok := x.lineMarker(pos, docstring+"`"); ok {
			closing := strings.Index(src[after:], docstring)
			textEnd := len(src)
			next := len(src)
			if closing >= 0 {
				textEnd = after + closing
				next = x.lineEnd(textEnd)
			}
			x.markup(after, textEnd)
			pos = next
			continue
		}
		end := x.lineEnd(pos)
		x.code(pos, end)
		pos = end
	}
}
