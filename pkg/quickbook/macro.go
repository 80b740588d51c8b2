package quickbook

import (
	"strings"
	"unicode/utf8"
)

// macroScope is a layer of macro definitions. Lookups fall through to
// the parent; definitions always go to the innermost layer.
type macroScope struct {
	table  map[string]string
	parent *macroScope
	maxLen int
}

func newMacroScope(parent *macroScope) *macroScope {
	m := &macroScope{table: make(map[string]string), parent: parent}
	if parent != nil {
		m.maxLen = parent.maxLen
	}
	return m
}

func (m *macroScope) define(name, expansion string) {
	m.table[name] = expansion
	if len(name) > m.maxLen {
		m.maxLen = len(name)
	}
}

func (m *macroScope) find(name string) (string, bool) {
	for scope := m; scope != nil; scope = scope.parent {
		if v, ok := scope.table[name]; ok {
			return v, true
		}
	}
	return "", false
}

// match returns the longest macro name that prefixes text.
func (m *macroScope) match(text string) (int, string, bool) {
	n := min(m.maxLen, len(text))
	for ; n > 0; n-- {
		if n < len(text) && !utf8.RuneStart(text[n]) {
			continue
		}
		if v, ok := m.find(text[:n]); ok {
			return n, v, true
		}
	}
	return 0, "", false
}

// validMacroName reports whether name can be defined: no whitespace and
// no closing bracket.
func validMacroName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\n]")
}
