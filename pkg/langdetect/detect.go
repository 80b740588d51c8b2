// Package langdetect picks the source mode used to highlight and slice a
// code file. It uses go-enry to recognise languages from file names and
// content, and folds the result onto the modes quickbook understands.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Source modes.
const (
	ModeCpp      = "c++"
	ModePython   = "python"
	ModeTeletype = "teletype"
)

var (
	cppPattern = regexp.MustCompile( //nolint:gochecknoglobals
		`(?m)^\s*#\s*(include|define|ifndef|pragma)\b|\bnamespace\s+\w+\s*\{|\btemplate\s*<|\bstd::`)
	pythonPattern = regexp.MustCompile( //nolint:gochecknoglobals
		`(?m)^\s*(def\s+\w+\s*\(.*\)\s*:|class\s+\w+.*:|from\s+[\w.]+\s+import\s|import\s+\w+\s*$)`)
)

// ForPath returns the source mode for a file, trying its extension first
// and its content second.
func ForPath(path string, content []byte) string {
	for _, lang := range enry.GetLanguagesByExtension(path, content, nil) {
		if mode := fromEnry(lang); mode != "" {
			return mode
		}
	}
	return Detect(content)
}

// IsCode reports whether a file can be sliced into snippets, judged by its
// extension alone.
func IsCode(path string) bool {
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if mode := fromEnry(lang); mode == ModeCpp || mode == ModePython {
			return true
		}
	}
	return false
}

// Detect returns the source mode for content of unknown origin.
// Returns "teletype" when nothing matches.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ModeTeletype
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		if mode := fromEnry(lang); mode != "" {
			return mode
		}
		return ModeTeletype
	}

	if pythonPattern.Match(content) {
		return ModePython
	}
	if cppPattern.Match(content) {
		return ModeCpp
	}

	candidates := []string{"C++", "C", "Python"}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return fromEnry(lang)
	}

	return ModeTeletype
}

// fromEnry folds a linguist language name onto a source mode.
func fromEnry(lang string) string {
	switch strings.ToLower(lang) {
	case "c++", "c", "objective-c++", "cuda", "objective-c":
		return ModeCpp
	case "python", "cython":
		return ModePython
	case "text", "shell", "console", "shellsession":
		return ModeTeletype
	default:
		return ""
	}
}
