// Package logging configures the charmbracelet/log loggers used by the
// quickbook command and carries them through contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide fallback logger.
var defaultLogger atomic.Pointer[log.Logger]

// New creates a logger on stderr at the named level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger on w at the named level. Unknown level
// names select info; "warning" is accepted for warn.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "quickbook"})
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(name string) log.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil || level < log.DebugLevel || level > log.ErrorLevel {
		return log.InfoLevel
	}
	return level
}

// Default returns the process-wide logger, creating an info logger on
// stderr the first time.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
