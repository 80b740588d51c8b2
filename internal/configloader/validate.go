package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/quickbook/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "indent").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownDepsFormats lists valid dependency list formats.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownDepsFormats = map[string]bool{
	config.DepsFormatDeps:    true,
	config.DepsFormatChecked: true,
	config.DepsFormatEscaped: true,
}

// knownDiagnosticFormats lists valid diagnostic formats.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownDiagnosticFormats = map[config.DiagnosticFormat]bool{
	config.DiagnosticGNU: true,
	config.DiagnosticMS:  true,
}

// knownColorModes lists valid color modes.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[config.ColorMode]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Indent != nil && *cfg.Indent < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "indent",
			Value:   *cfg.Indent,
			Message: "indent must be >= 0",
		})
	}

	if cfg.LineWidth != nil && *cfg.LineWidth < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "linewidth",
			Value:   *cfg.LineWidth,
			Message: "linewidth must be >= 0 (0 disables wrapping)",
		})
	}

	if cfg.DepsFormat != "" && !knownDepsFormats[cfg.DepsFormat] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "deps_format",
			Value:   cfg.DepsFormat,
			Message: fmt.Sprintf("invalid deps format %q; must be one of: deps, checked, escaped", cfg.DepsFormat),
		})
	}

	if cfg.DiagnosticFormat != "" && !knownDiagnosticFormats[cfg.DiagnosticFormat] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "diagnostic_format",
			Value:   cfg.DiagnosticFormat,
			Message: fmt.Sprintf("invalid diagnostic format %q; must be one of: gnu, ms", cfg.DiagnosticFormat),
		})
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	validateDefines(cfg, result)
	validateIncludePaths(cfg, result)

	return result
}

// validateDefines checks that every definition names a macro.
func validateDefines(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]int, len(cfg.Defines))
	for i, def := range cfg.Defines {
		name, _, _ := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, " \t\n]") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("defines[%d]", i),
				Value:   def,
				Message: fmt.Sprintf("invalid macro definition %q", def),
			})
			continue
		}
		if prev, ok := seen[name]; ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("defines[%d]", i),
				Value:   def,
				Message: fmt.Sprintf("macro %q already defined by defines[%d]; the later definition wins", name, prev),
			})
		}
		seen[name] = i
	}
}

// validateIncludePaths warns about include directories that do not exist.
func validateIncludePaths(cfg *config.Config, result *ValidationResult) {
	for i, dir := range cfg.IncludePaths {
		if dir == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("include_paths[%d]", i),
				Value:   dir,
				Message: "empty include path",
			})
			continue
		}
		if !dirExists(dir) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("include_paths[%d]", i),
				Value:   dir,
				Message: fmt.Sprintf("include path %q does not exist", dir),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidDepsFormat returns true if the dependency list format is valid.
func IsValidDepsFormat(format string) bool {
	return knownDepsFormats[format]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(mode config.ColorMode) bool {
	return knownColorModes[mode]
}
