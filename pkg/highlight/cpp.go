package highlight

import "strings"

const cppSpecials = "~!%^&*()+={[}]:;,<.>?/|\\-"

var cppKeywords = wordSet( //nolint:gochecknoglobals
	"alignas alignof and and_eq asm auto bitand bitor bool break case catch char char8_t " +
		"char16_t char32_t class co_await co_return co_yield compl concept const consteval " +
		"constexpr constinit const_cast continue decltype default delete do double " +
		"dynamic_cast else enum explicit export extern false float for friend goto if " +
		"inline int long mutable namespace new noexcept not not_eq nullptr operator or " +
		"or_eq private protected public register reinterpret_cast requires return short " +
		"signed sizeof static static_assert static_cast struct switch template this " +
		"thread_local throw true try typedef typeid typename union unsigned using virtual " +
		"void volatile wchar_t while xor xor_eq")

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Cpp highlights C and C++.
type Cpp struct{}

// Highlight implements Highlighter.
func (Cpp) Highlight(code string, hooks Hooks) string {
	s := newScanner(code, hooks)
	for !s.done() {
		if s.space() || s.common() {
			continue
		}
		rest := s.rest()
		c := rest[0]
		switch {
		case strings.HasPrefix(rest, "/*<") && hooks.Callout != nil:
			end := strings.Index(rest, ">*/")
			if end < 0 {
				s.emit(RoleComment, len(code))
				continue
			}
			s.out.WriteString(hooks.Callout(s.pos+3, s.pos+end))
			s.pos += end + 3
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			s.emit(RoleComment, s.pos+end)
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				s.emit(RoleComment, len(code))
			} else {
				s.emit(RoleComment, s.pos+2+end+2)
			}
		case c == '#':
			end := s.pos + 1
			for end < len(code) && (code[end] == ' ' || code[end] == '\t') {
				end++
			}
			if end < len(code) && isIdentStart(code[end]) {
				s.emit(RolePreprocessor, identEnd(code, end))
			} else {
				s.emit(RoleSpecial, s.pos+1)
			}
		case c == '"':
			s.emit(RoleString, quoted(code, s.pos, '"'))
		case c == '\'':
			s.emit(RoleChar, quoted(code, s.pos, '\''))
		case startsNumber(code, s.pos):
			s.emit(RoleNumber, numberEnd(code, s.pos))
		case isIdentStart(c):
			end := identEnd(code, s.pos)
			if end < len(code) && (code[end] == '"' || code[end] == '\'') && isStringPrefix(code[s.pos:end]) {
				role := RoleString
				if code[end] == '\'' {
					role = RoleChar
				}
				s.emit(role, quoted(code, end, code[end]))
				continue
			}
			role := RoleIdentifier
			if cppKeywords[code[s.pos:end]] {
				role = RoleKeyword
			}
			s.emit(role, end)
		case strings.IndexByte(cppSpecials, c) >= 0:
			s.emit(RoleSpecial, specialEnd(code, s.pos, cppSpecials))
		default:
			s.emit("", s.pos+1)
		}
	}
	return s.out.String()
}

func isStringPrefix(p string) bool {
	switch p {
	case "L", "u", "U", "u8", "R", "LR", "uR", "UR", "u8R":
		return true
	}
	return false
}
