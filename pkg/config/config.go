// Package config defines the settings of a quickbook run.
// These types are plain data; discovery and merging live in internal/configloader.
package config

// ColorMode controls coloured terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DiagnosticFormat selects how diagnostics are printed.
type DiagnosticFormat string

const (
	// DiagnosticGNU prints "file:line:col: error: message".
	DiagnosticGNU DiagnosticFormat = "gnu"

	// DiagnosticMS prints "file(line): error: message", which Visual Studio
	// understands.
	DiagnosticMS DiagnosticFormat = "ms"
)

// Dependency list formats.
const (
	DepsFormatDeps    = "deps"
	DepsFormatChecked = "checked"
	DepsFormatEscaped = "escaped"
)

// Default layout of pretty printed output.
const (
	DefaultIndent    = 2
	DefaultLineWidth = 80
)

// Config is the root configuration structure.
// Pointer fields distinguish "unset" from an explicit zero or false so
// that a later source can turn a setting off.
type Config struct {
	// IncludePaths are searched for [include] and [import] files after
	// the including file's directory.
	IncludePaths []string `yaml:"include_paths,omitempty"`

	// Defines are macro definitions, "name=value" or "name".
	Defines []string `yaml:"defines,omitempty"`

	// PrettyPrint reformats the generated Boostbook.
	PrettyPrint *bool `yaml:"pretty_print,omitempty"`

	// SelfLinkedHeaders wraps heading titles in links to themselves.
	SelfLinkedHeaders *bool `yaml:"self_linked_headers,omitempty"`

	// Indent is the indentation step of pretty printed output.
	Indent *int `yaml:"indent,omitempty"`

	// LineWidth is the width pretty printed text is wrapped at.
	LineWidth *int `yaml:"linewidth,omitempty"`

	// ImageLocation is where images are looked up for dependency tracking.
	ImageLocation string `yaml:"image_location,omitempty"`

	// XIncludeBase is the directory xinclude paths are relative to.
	XIncludeBase string `yaml:"xinclude_base,omitempty"`

	// DepsFormat is the format of the dependency list.
	DepsFormat string `yaml:"deps_format,omitempty"`

	// DiagnosticFormat is "gnu" or "ms".
	DiagnosticFormat DiagnosticFormat `yaml:"diagnostic_format,omitempty"`

	// Color controls coloured output: auto, always or never.
	Color ColorMode `yaml:"color,omitempty"`

	// Strict counts warnings as errors.
	Strict *bool `yaml:"strict,omitempty"`

	// CLI-level options (not persisted to config files).

	// Input is the document to compile.
	Input string `yaml:"-"`

	// Output is the file to write; "-" is stdout.
	Output string `yaml:"-"`

	// DepsOutput is the file the dependency list is written to.
	DepsOutput string `yaml:"-"`

	// ExpectErrors inverts the exit status: success only when errors were
	// reported.
	ExpectErrors bool `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Watch recompiles when the input or its dependencies change.
	Watch bool `yaml:"-"`
}

// NewConfig returns a Config with the built in defaults.
func NewConfig() *Config {
	return &Config{
		PrettyPrint:       Bool(true),
		SelfLinkedHeaders: Bool(true),
		Indent:            Int(DefaultIndent),
		LineWidth:         Int(DefaultLineWidth),
		DepsFormat:        DepsFormatDeps,
		DiagnosticFormat:  DiagnosticGNU,
		Color:             ColorAuto,
		Strict:            Bool(false),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// BoolValue dereferences p, returning def when it is nil.
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// IntValue dereferences p, returning def when it is nil.
func IntValue(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// PrettyPrintEnabled reports whether output is pretty printed.
func (c *Config) PrettyPrintEnabled() bool { return BoolValue(c.PrettyPrint, true) }

// SelfLinkedHeadersEnabled reports whether headings link to themselves.
func (c *Config) SelfLinkedHeadersEnabled() bool { return BoolValue(c.SelfLinkedHeaders, true) }

// IndentWidth returns the indentation step.
func (c *Config) IndentWidth() int { return IntValue(c.Indent, DefaultIndent) }

// WrapWidth returns the line width.
func (c *Config) WrapWidth() int { return IntValue(c.LineWidth, DefaultLineWidth) }

// StrictEnabled reports whether warnings count as errors.
func (c *Config) StrictEnabled() bool { return BoolValue(c.Strict, false) }
