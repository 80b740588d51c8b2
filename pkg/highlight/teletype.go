package highlight

// Teletype copies text through, expanding macros and escapes only.
type Teletype struct{}

// Highlight implements Highlighter.
func (Teletype) Highlight(code string, hooks Hooks) string {
	s := newScanner(code, hooks)
	for !s.done() {
		if s.common() {
			continue
		}
		end := s.pos + 1
		if isIdentStart(code[s.pos]) {
			end = identEnd(code, s.pos)
		}
		s.emit("", end)
	}
	return s.out.String()
}
