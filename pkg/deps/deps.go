// Package deps records the files a compilation read or looked for.
package deps

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Format selects how the dependency list is written.
type Format int

const (
	// FormatDefault lists found files, one per line.
	FormatDefault Format = iota
	// FormatChecked prefixes every path with '+' (found) or '-' (missing).
	FormatChecked
	// FormatEscaped lists found files with control characters escaped.
	FormatEscaped
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown dependency format")

// ParseFormat maps a command line name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "deps":
		return FormatDefault, nil
	case "checked":
		return FormatChecked, nil
	case "escaped":
		return FormatEscaped, nil
	default:
		return FormatDefault, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// String returns the command line name of the format.
func (f Format) String() string {
	switch f {
	case FormatChecked:
		return "checked"
	case FormatEscaped:
		return "escaped"
	default:
		return "deps"
	}
}

// Tracker accumulates dependencies keyed by cleaned absolute path.
type Tracker struct {
	found map[string]bool
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{found: make(map[string]bool)}
}

// Add records path. A path seen as found stays found.
func (t *Tracker) Add(path string, found bool) bool {
	key := normalizePath(path)
	t.found[key] = t.found[key] || found
	return found
}

// Found returns the paths that existed, sorted.
func (t *Tracker) Found() []string {
	var out []string
	for path, ok := range t.found {
		if ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// All returns every recorded path, sorted.
func (t *Tracker) All() []string {
	out := make([]string, 0, len(t.found))
	for path := range t.found {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Write renders the dependency list.
func (t *Tracker) Write(format Format) string {
	var b strings.Builder
	switch format {
	case FormatChecked:
		for _, path := range t.All() {
			if t.found[path] {
				b.WriteByte('+')
			} else {
				b.WriteByte('-')
			}
			b.WriteString(path)
			b.WriteByte('\n')
		}
	case FormatEscaped:
		for _, path := range t.Found() {
			if escaped, changed := escape(path); changed {
				b.WriteString("\\")
				b.WriteString(escaped)
			} else {
				b.WriteString(path)
			}
			b.WriteByte('\n')
		}
	default:
		for _, path := range t.Found() {
			b.WriteString(path)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// escape escapes backslashes and control characters. The second result
// reports whether anything needed escaping.
func escape(path string) (string, bool) {
	changed := false
	var b strings.Builder
	for _, r := range path {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
			changed = true
		case r == '\n':
			b.WriteString(`\n`)
			changed = true
		case r == '\t':
			b.WriteString(`\t`)
			changed = true
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02X`, r)
			changed = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), changed
}
