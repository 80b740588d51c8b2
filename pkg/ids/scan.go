package ids

import "strings"

// IDAttributes lists the attributes whose values hold ids.
var IDAttributes = map[string]bool{ //nolint:gochecknoglobals
	"id":       true,
	"linkend":  true,
	"linkends": true,
	"arearefs": true,
}

// walkIDAttributes calls fn with the raw value of each id attribute.
func walkIDAttributes(markup string, fn func(value string)) {
	scanAttributes(markup, func(name string, start, end int) {
		if IDAttributes[name] {
			fn(markup[start:end])
		}
	})
}

// rewriteIDAttributes returns markup with every id attribute value passed
// through fn.
func rewriteIDAttributes(markup string, fn func(value string) string) string {
	var b strings.Builder
	last := 0
	scanAttributes(markup, func(name string, start, end int) {
		if !IDAttributes[name] {
			return
		}
		b.WriteString(markup[last:start])
		b.WriteString(fn(markup[start:end]))
		last = end
	})
	if last == 0 {
		return markup
	}
	b.WriteString(markup[last:])
	return b.String()
}

// scanAttributes walks the start tags of markup and reports each
// attribute name with the byte range of its value. Comments, CDATA,
// processing instructions and declarations are skipped.
func scanAttributes(markup string, fn func(name string, start, end int)) {
	i := 0
	for i < len(markup) {
		j := strings.IndexByte(markup[i:], '<')
		if j < 0 {
			return
		}
		i += j
		rest := markup[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			i = skipPast(markup, i+4, "-->")
			continue
		case strings.HasPrefix(rest, "<![CDATA["):
			i = skipPast(markup, i+9, "]]>")
			continue
		case strings.HasPrefix(rest, "<?"):
			i = skipPast(markup, i+2, "?>")
			continue
		case strings.HasPrefix(rest, "<!"), strings.HasPrefix(rest, "</"):
			i = skipPast(markup, i+2, ">")
			continue
		}
		i = scanTag(markup, i+1, fn)
	}
}

func skipPast(s string, from int, marker string) int {
	k := strings.Index(s[from:], marker)
	if k < 0 {
		return len(s)
	}
	return from + k + len(marker)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// scanTag parses the rest of a start tag beginning after '<' and returns
// the position after it.
func scanTag(s string, i int, fn func(name string, start, end int)) int {
	for i < len(s) && !isSpace(s[i]) && s[i] != '>' && s[i] != '/' {
		i++
	}
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return i
		}
		if s[i] == '>' {
			return i + 1
		}
		if s[i] == '/' {
			i++
			continue
		}
		nameStart := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '=' && s[i] != '>' && s[i] != '/' {
			i++
		}
		name := s[nameStart:i]
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '=' {
			continue
		}
		i++
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return i
		}
		quote := s[i]
		if quote != '"' && quote != '\'' {
			for i < len(s) && !isSpace(s[i]) && s[i] != '>' {
				i++
			}
			continue
		}
		start := i + 1
		k := strings.IndexByte(s[start:], quote)
		if k < 0 {
			return len(s)
		}
		fn(name, start, start+k)
		i = start + k + 1
	}
	return i
}
