package highlight

import "strings"

const pythonSpecials = "~!%^&*()+={[}]:;,<.>/|\\-@"

var pythonKeywords = wordSet( //nolint:gochecknoglobals
	"and as assert async await break class continue def del elif else except exec " +
		"finally for from global if import in is lambda nonlocal not or pass print raise " +
		"return try while with yield None True False")

// Python highlights Python.
type Python struct{}

// Highlight implements Highlighter.
func (Python) Highlight(code string, hooks Hooks) string {
	s := newScanner(code, hooks)
	for !s.done() {
		if s.space() || s.common() {
			continue
		}
		rest := s.rest()
		c := rest[0]
		switch {
		case c == '#':
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			s.emit(RoleComment, s.pos+end)
		case c == '"' || c == '\'':
			s.emit(RoleString, pythonString(code, s.pos))
		case startsNumber(code, s.pos):
			s.emit(RoleNumber, numberEnd(code, s.pos))
		case isIdentStart(c):
			end := identEnd(code, s.pos)
			if end < len(code) && (code[end] == '"' || code[end] == '\'') && isPythonPrefix(code[s.pos:end]) {
				s.emit(RoleString, pythonString(code, end))
				continue
			}
			role := RoleIdentifier
			if pythonKeywords[code[s.pos:end]] {
				role = RoleKeyword
			}
			s.emit(role, end)
		case strings.IndexByte(pythonSpecials, c) >= 0:
			s.emit(RoleSpecial, specialEnd(code, s.pos, pythonSpecials))
		default:
			s.emit("", s.pos+1)
		}
	}
	return s.out.String()
}

// pythonString returns the end of a short or triple quoted string.
func pythonString(code string, pos int) int {
	quote := code[pos]
	triple := strings.Repeat(string(quote), 3)
	if strings.HasPrefix(code[pos:], triple) {
		i := pos + 3
		for i < len(code) {
			if code[i] == '\\' {
				i += 2
				continue
			}
			if strings.HasPrefix(code[i:], triple) {
				return i + 3
			}
			i++
		}
		return len(code)
	}
	return quoted(code, pos, quote)
}

func isPythonPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf", "ur":
		return true
	}
	return false
}
