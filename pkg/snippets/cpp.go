package snippets

import "strings"

func (x *extractor) scanCpp() {
	src := x.src
	pos := 0
	for pos < len(src) {
		if next := x.lineCommon(pos, "//"); next >= 0 {
			pos = next
			continue
		}
		pos = x.scanCppLine(pos, x.lineEnd(pos))
	}
}

// scanCppLine handles the inline /*...*/ markers of one line. Block
// comments may continue past the line; the returned offset is where
// scanning resumes.
func (x *extractor) scanCppLine(pos, end int) int {
	src := x.src
	codeStart := pos
	for i := pos; i < end; {
		j := strings.Index(src[i:end], "/*")
		if j < 0 {
			break
		}
		i += j
		rest := src[i:]
		switch {
		case strings.HasPrefix(rest, "/*<-*/"):
			x.code(codeStart, i)
			x.ignore++
			i += len("/*<-*/")
			codeStart = i
		case strings.HasPrefix(rest, "/*->*/"):
			x.code(codeStart, i)
			if x.ignore > 0 {
				x.ignore--
			}
			i += len("/*->*/")
			codeStart = i
		case strings.HasPrefix(rest, "/*]*/"):
			x.code(codeStart, i)
			if x.ignore == 0 {
				x.end(i)
			}
			i += len("/*]*/")
			codeStart = i
		case strings.HasPrefix(rest, "/*["):
			idEnd := identifierEnd(src, i+3)
			if idEnd > i+3 && strings.HasPrefix(src[idEnd:], "*/") {
				x.code(codeStart, i)
				if x.ignore == 0 {
					x.begin(src[i+3 : idEnd])
				}
				i = idEnd + 2
				codeStart = i
				continue
			}
			i += 2
		case strings.HasPrefix(rest, "/*`"):
			closing := strings.Index(rest, "*/")
			if closing < 0 {
				closing = len(rest)
			}
			x.code(codeStart, i)
			x.markup(i+3, i+closing)
			i += min(closing+2, len(rest))
			codeStart = i
			if i > end {
				end = x.lineEnd(i)
			}
		default:
			closing := strings.Index(rest[2:], "*/")
			if closing < 0 {
				i = len(src)
			} else {
				i += closing + 4
			}
			if i > end {
				end = x.lineEnd(i)
			}
		}
	}
	x.code(codeStart, end)
	return end
}
