package files

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yaklabco/quickbook/pkg/fsutil"
)

// ErrLoad is wrapped by every error returned while loading a source file.
var ErrLoad = errors.New("load error")

// Encoding identifies the byte order mark found at the start of a file.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingUTF8
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingUTF32LE
	EncodingUTF32BE
)

// String returns a human-readable encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF32LE:
		return "UTF-32LE"
	case EncodingUTF32BE:
		return "UTF-32BE"
	default:
		return "none"
	}
}

// DetectBOM reports the byte order mark at the start of raw.
func DetectBOM(raw []byte) Encoding {
	switch {
	case bytes.HasPrefix(raw, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return EncodingUTF32BE
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return EncodingUTF32LE
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE
	default:
		return EncodingNone
	}
}

// Decode converts raw file bytes to normalized source text: the byte
// order mark is consumed, UTF-16 is transcoded to UTF-8 and every CRLF or
// lone CR becomes LF.
func Decode(raw []byte) (string, error) {
	enc := DetectBOM(raw)
	switch enc {
	case EncodingUTF32BE, EncodingUTF32LE:
		return "", fmt.Errorf("%w: %s is not supported", ErrLoad, enc)
	case EncodingNone:
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrLoad)
		}
	case EncodingUTF8:
		if !utf8.Valid(raw[3:]) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrLoad)
		}
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrLoad, enc, err)
	}

	// The UTF-16 decoder substitutes U+FFFD for unpaired surrogates and a
	// trailing odd byte.
	if enc == EncodingUTF16LE || enc == EncodingUTF16BE {
		if bytes.Count(decoded, []byte("\uFFFD")) != replacementUnits(raw[2:], enc) {
			return "", fmt.Errorf("%w: invalid %s", ErrLoad, enc)
		}
	}

	return NormalizeNewlines(string(decoded)), nil
}

// replacementUnits counts the U+FFFD code units present in UTF-16 input.
func replacementUnits(body []byte, enc Encoding) int {
	order := binary.ByteOrder(binary.LittleEndian)
	if enc == EncodingUTF16BE {
		order = binary.BigEndian
	}
	n := 0
	for i := 0; i+1 < len(body); i += 2 {
		if order.Uint16(body[i:]) == 0xFFFD {
			n++
		}
	}
	return n
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Loader reads source files and caches them by path.
type Loader struct {
	cache  map[string]*File
	logger *log.Logger
}

// NewLoader creates an empty loader.
func NewLoader(logger *log.Logger) *Loader {
	return &Loader{
		cache:  make(map[string]*File),
		logger: logger,
	}
}

// Load returns the file at path, reading it on first use. The returned
// file is shared between callers and must not be modified, except for its
// Version which the parser sets while reading the document header.
func (l *Loader) Load(ctx context.Context, path string) (*File, error) {
	key := cacheKey(path)
	if f, ok := l.cache[key]; ok {
		return f, nil
	}

	raw, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	source, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if l.logger != nil {
		l.logger.Debug("loaded file", "path", path, "bytes", len(source), "bom", DetectBOM(raw))
	}

	f := New(path, source, 0)
	l.cache[key] = f
	return f, nil
}

// LoadString registers in-memory content under path, replacing any cached
// file of the same name.
func (l *Loader) LoadString(path, content string) *File {
	f := New(path, NormalizeNewlines(strings.TrimPrefix(content, "\ufeff")), 0)
	l.cache[cacheKey(path)] = f
	return f
}

// Cached reports whether path has been loaded or registered.
func (l *Loader) Cached(path string) bool {
	_, ok := l.cache[cacheKey(path)]
	return ok
}

// Paths returns the cached paths in no particular order.
func (l *Loader) Paths() []string {
	paths := make([]string, 0, len(l.cache))
	for _, f := range l.cache {
		paths = append(paths, f.Path)
	}
	return paths
}

// Reset drops every cached file.
func (l *Loader) Reset() {
	l.cache = make(map[string]*File)
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
