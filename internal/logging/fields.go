// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Compilation fields.
	FieldQuickbookVersion = "quickbook_version"
	FieldDocType          = "doc_type"
	FieldIncludePaths     = "include_paths"
	FieldDefines          = "defines"
	FieldDeps             = "deps"
	FieldDepsFormat       = "deps_format"
	FieldPrettyPrint      = "pretty_print"
	FieldDuration         = "duration"

	// Statistics fields.
	FieldErrors   = "errors"
	FieldWarnings = "warnings"
	FieldBytes    = "bytes"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Watch fields.
	FieldEvent = "event"
)
