package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. Otherwise the
	// settings are listed as comments.
	Full bool

	// IncludePaths pre-fills include_paths.
	IncludePaths []string
}

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	comment := "# "
	if opts.Full {
		comment = ""
	}
	defaults := NewConfig()

	setting := func(doc, line string) {
		fmt.Fprintf(&buf, "# %s\n%s%s\n\n", doc, comment, line)
	}

	if len(opts.IncludePaths) > 0 {
		buf.WriteString("# Directories searched for [include] and [import] files\ninclude_paths:\n")
		for _, p := range opts.IncludePaths {
			fmt.Fprintf(&buf, "  - %q\n", p)
		}
		buf.WriteString("\n")
	} else {
		setting("Directories searched for [include] and [import] files", "include_paths: []")
	}
	setting("Macros defined before the document is parsed (name=value)", "defines: []")
	setting("Reformat the generated Boostbook", fmt.Sprintf("pretty_print: %t", defaults.PrettyPrintEnabled()))
	setting("Make headings link to themselves", fmt.Sprintf("self_linked_headers: %t", defaults.SelfLinkedHeadersEnabled()))
	setting("Indentation step of pretty printed output", fmt.Sprintf("indent: %d", defaults.IndentWidth()))
	setting("Width pretty printed text is wrapped at", fmt.Sprintf("linewidth: %d", defaults.WrapWidth()))
	setting("Where images are looked up for dependency tracking", `image_location: ""`)
	setting("Directory xinclude paths are made relative to", `xinclude_base: ""`)
	setting("Dependency list format: "+strings.Join([]string{DepsFormatDeps, DepsFormatChecked, DepsFormatEscaped}, ", "),
		"deps_format: "+defaults.DepsFormat)
	setting("Diagnostic format: gnu or ms", "diagnostic_format: "+string(defaults.DiagnosticFormat))
	setting("Coloured output: auto, always or never", "color: "+string(defaults.Color))
	setting("Count warnings as errors", fmt.Sprintf("strict: %t", defaults.StrictEnabled()))

	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# quickbook configuration
# See: https://github.com/yaklabco/quickbook`
}
