// Package highlight renders program text as Boostbook markup, wrapping
// tokens in <phrase role="..."> elements.
package highlight

import (
	"strings"
)

// Token roles.
const (
	RoleKeyword      = "keyword"
	RoleIdentifier   = "identifier"
	RoleSpecial      = "special"
	RolePreprocessor = "preprocessor"
	RoleComment      = "comment"
	RoleString       = "string"
	RoleChar         = "char"
	RoleNumber       = "number"
)

// Hooks connects a highlighter to the document being compiled. Nil
// fields disable the feature.
type Hooks struct {
	// Macro reports the length of a macro name starting at the beginning
	// of text, and its expansion.
	Macro func(text string) (n int, expansion string, ok bool)

	// Escape renders quickbook markup found between double backticks.
	// The offsets index the highlighted code.
	Escape func(begin, end int) string

	// Callout renders the marker for a /*< ... >*/ comment. The offsets
	// delimit the callout body.
	Callout func(begin, end int) string
}

// Highlighter renders code.
type Highlighter interface {
	Highlight(code string, hooks Hooks) string
}

// ForMode returns the highlighter for a source mode. Unknown modes fall
// back to teletype.
func ForMode(mode string) Highlighter {
	switch mode {
	case "c++":
		return Cpp{}
	case "python":
		return Python{}
	default:
		return Teletype{}
	}
}

var xmlEscaper = strings.NewReplacer( //nolint:gochecknoglobals
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Encode escapes the XML special characters of text.
func Encode(text string) string {
	return xmlEscaper.Replace(text)
}

// scanner carries the shared state of the token loops.
type scanner struct {
	code  string
	pos   int
	hooks Hooks
	out   strings.Builder
}

func newScanner(code string, hooks Hooks) *scanner {
	return &scanner{code: code, hooks: hooks}
}

func (s *scanner) done() bool { return s.pos >= len(s.code) }

func (s *scanner) rest() string { return s.code[s.pos:] }

func (s *scanner) emit(role string, end int) {
	text := Encode(s.code[s.pos:end])
	if role == "" {
		s.out.WriteString(text)
	} else {
		s.out.WriteString(`<phrase role="` + role + `">` + text + `</phrase>`)
	}
	s.pos = end
}

// common handles the tokens every mode shares: escapes and macros.
func (s *scanner) common() bool {
	rest := s.rest()
	if strings.HasPrefix(rest, "``") && s.hooks.Escape != nil {
		if end := strings.Index(rest[2:], "``"); end >= 0 {
			begin := s.pos + 2
			s.out.WriteString(s.hooks.Escape(begin, begin+end))
			s.pos = begin + end + 2
			return true
		}
	}
	if s.hooks.Macro != nil {
		if n, expansion, ok := s.hooks.Macro(rest); ok && n > 0 {
			s.out.WriteString(expansion)
			s.pos += n
			return true
		}
	}
	return false
}

// space consumes a run of whitespace.
func (s *scanner) space() bool {
	end := s.pos
	for end < len(s.code) && isSpace(s.code[end]) {
		end++
	}
	if end == s.pos {
		return false
	}
	s.emit("", end)
	return true
}

// quoted returns the end of a quoted literal starting at pos, honouring
// backslash escapes. Unterminated literals end at the line end.
func quoted(code string, pos int, quote byte) int {
	i := pos + 1
	for i < len(code) {
		switch code[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(code)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func identEnd(code string, pos int) int {
	for pos < len(code) && isIdentChar(code[pos]) {
		pos++
	}
	return pos
}

// numberEnd scans a C style numeric literal: hex, octal, decimal or
// floating point, with digit separators and suffixes.
func numberEnd(code string, pos int) int {
	i := pos
	if strings.HasPrefix(code[i:], "0x") || strings.HasPrefix(code[i:], "0X") {
		i += 2
		for i < len(code) && (isHex(code[i]) || code[i] == '\'') {
			i++
		}
	} else {
		for i < len(code) && (isDigit(code[i]) || code[i] == '\'' || code[i] == '_') {
			i++
		}
		if i < len(code) && code[i] == '.' {
			i++
			for i < len(code) && isDigit(code[i]) {
				i++
			}
		}
		if i < len(code) && (code[i] == 'e' || code[i] == 'E') {
			j := i + 1
			if j < len(code) && (code[j] == '+' || code[j] == '-') {
				j++
			}
			if j < len(code) && isDigit(code[j]) {
				i = j
				for i < len(code) && isDigit(code[i]) {
					i++
				}
			}
		}
	}
	for i < len(code) && strings.IndexByte("uUlLfFjJ", code[i]) >= 0 {
		i++
	}
	return i
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// startsNumber reports whether a number literal begins at pos.
func startsNumber(code string, pos int) bool {
	c := code[pos]
	if isDigit(c) {
		return true
	}
	return c == '.' && pos+1 < len(code) && isDigit(code[pos+1])
}

// specialEnd consumes a run of characters from set.
func specialEnd(code string, pos int, set string) int {
	for pos < len(code) && strings.IndexByte(set, code[pos]) >= 0 {
		pos++
	}
	return pos
}
