package ids

import (
	"html"
	"strings"
	"unicode"
)

// MaxLength bounds the length of a generated id fragment.
const MaxLength = 32

// MakeID turns free text into an id fragment: lower case, runs of
// anything other than letters and digits collapsed to one underscore.
func MakeID(text string) string {
	var b strings.Builder
	pending := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '_' || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			pending = true
		}
	}
	return b.String()
}

// FromTitle builds an id fragment from already encoded title markup.
func FromTitle(markup string) string {
	return MakeID(html.UnescapeString(StripTags(markup)))
}

// StripTags removes anything between angle brackets.
func StripTags(markup string) string {
	var b strings.Builder
	depth := 0
	for _, r := range markup {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalize prepares an id fragment as the base of a generated id.
func normalize(id string, maxLength int) string {
	var b strings.Builder
	underscore := false
	for _, r := range id {
		ok := r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if !ok {
			underscore = true
			continue
		}
		if underscore && b.Len() > 0 {
			b.WriteByte('_')
		}
		underscore = false
		b.WriteRune(r)
	}
	out := b.String()
	if maxLength > 0 && len(out) > maxLength {
		out = truncate(out, maxLength)
	}
	out = strings.TrimRight(out, "_")
	if out == "" {
		out = "id"
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
