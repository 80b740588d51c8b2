// Package templates stores template definitions in a cactus stack of
// scopes. Every scope has two parent links: the lexical chain used by
// quickbook 1.5 and later, and the dynamic chain that 1.4 documents
// expect.
package templates

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/value"
)

// Kind classifies a template body.
type Kind int

const (
	// KindPhrase bodies expand inline.
	KindPhrase Kind = iota

	// KindBlock bodies start with a line break and expand as block content.
	KindBlock

	// KindSnippet bodies come from [import]ed source files.
	KindSnippet

	// KindEscape bodies are raw boostbook and are not parsed.
	KindEscape
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindSnippet:
		return "snippet"
	case KindEscape:
		return "escape"
	default:
		return "phrase"
	}
}

// Symbol is one template definition.
type Symbol struct {
	Name   string
	Params []string
	Body   value.Value
	Kind   Kind

	// Lexical is the scope the template was defined in. Nil for templates
	// defined by 1.4 documents, which always expand in the caller's scope.
	Lexical *Scope

	// SourceMode is the language of a snippet's code, empty otherwise.
	SourceMode string
}

// BodySpan returns the source span of the body.
func (s *Symbol) BodySpan() files.Span {
	span, err := s.Body.SourceSpan()
	if err != nil {
		return files.Span{}
	}
	return span
}

// Chain selects which parent link a lookup follows.
type Chain int

const (
	// Lexical follows the scope a template was defined in.
	Lexical Chain = iota

	// Dynamic follows the caller's scope, as 1.4 documents do.
	Dynamic
)

// Scope is one node of the cactus stack.
type Scope struct {
	symbols map[string]*Symbol

	// Parent is the version dependent lookup chain.
	Parent *Scope

	// Parent14 is the dynamic chain kept for 1.4 compatibility.
	Parent14 *Scope
}

// NewScope creates a scope with the given parents.
func NewScope(parent, parent14 *Scope) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), Parent: parent, Parent14: parent14}
}

// Lookup returns a symbol defined directly in this scope.
func (s *Scope) Lookup(name string) *Symbol {
	return s.symbols[name]
}

// Names returns the names defined directly in this scope.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	return names
}

// Stack is the template stack of a document. The top scope receives new
// definitions.
type Stack struct {
	top *Scope
}

// NewStack creates a stack with a single global scope.
func NewStack() *Stack {
	return &Stack{top: NewScope(nil, nil)}
}

// Top returns the innermost scope.
func (st *Stack) Top() *Scope {
	return st.top
}

// SetTop replaces the innermost scope; used to restore saved state.
func (st *Stack) SetTop(scope *Scope) {
	st.top = scope
}

// Push enters a new scope for expanding a template. The lexical parent is
// where the template was defined; when nil the caller's scope is used, as
// in 1.4. The dynamic parent is always the caller's scope.
func (st *Stack) Push(lexical *Scope) *Scope {
	caller := st.top
	parent := lexical
	if parent == nil {
		parent = caller
	}
	st.top = NewScope(parent, caller)
	return st.top
}

// Pop leaves the innermost scope, returning to the caller's scope.
func (st *Stack) Pop() {
	if st.top.Parent14 != nil {
		st.top = st.top.Parent14
	}
}

// Add defines a symbol in the innermost scope. It returns false when the
// name is already defined there.
func (st *Stack) Add(sym *Symbol) bool {
	if _, exists := st.top.symbols[sym.Name]; exists {
		return false
	}
	st.top.symbols[sym.Name] = sym
	return true
}

// Set defines or replaces a symbol in the innermost scope.
func (st *Stack) Set(sym *Symbol) {
	st.top.symbols[sym.Name] = sym
}

// Find returns the nearest definition of name along the chosen chain.
func (st *Stack) Find(name string, chain Chain) *Symbol {
	for scope := st.top; scope != nil; scope = next(scope, chain) {
		if sym, ok := scope.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// FindTop returns a definition of name in the innermost scope only.
func (st *Stack) FindTop(name string) *Symbol {
	return st.top.symbols[name]
}

// Depth returns the number of scopes on the dynamic chain.
func (st *Stack) Depth() int {
	depth := 0
	for scope := st.top; scope != nil; scope = scope.Parent14 {
		depth++
	}
	return depth
}

func next(scope *Scope, chain Chain) *Scope {
	if chain == Dynamic {
		return scope.Parent14
	}
	return scope.Parent
}

// IsBlockBody reports whether a template body is block content: the text
// before its first non-blank character contains a line break.
func IsBlockBody(body string) bool {
	trimmed := strings.TrimLeft(body, " \t")
	return strings.HasPrefix(trimmed, "\n")
}
