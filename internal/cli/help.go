package cli

import (
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/quickbook/internal/configloader"
	"github.com/yaklabco/quickbook/internal/ui/pretty"
)

// flagLine splits a pflag usage line into indent, flag names with their
// value type, and description.
var flagLine = regexp.MustCompile(`^(\s*)(\S.*?)(\s{2,})(\S.*)$`) //nolint:gochecknoglobals

// HelpFormatter renders command help with the diagnostic styles.
type HelpFormatter struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		heading: styles.Warning,
		command: styles.Bold,
		flag:    styles.Caret,
		dim:     styles.Dim,
	}
}

const helpTemplate = `{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}{{end}}
{{- if not .HasParent}}

{{ heading "Configuration:" }}
{{ configFiles }}{{end}}
{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for more about a command.{{end}}
`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":     h.heading.Render,
		"command":     h.command.Render,
		"dim":         h.dim.Render,
		"flags":       h.flags,
		"configFiles": h.configFiles,
		"rpad":        rpad,
		"trimLines":   trimLines,
	}
}

// flags styles the flag names of a usage block, dimming value types.
func (h *HelpFormatter) flags(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		names := strings.Fields(m[2])
		for j, name := range names {
			if strings.HasPrefix(name, "-") {
				trimmed := strings.TrimSuffix(name, ",")
				names[j] = h.flag.Render(trimmed) + name[len(trimmed):]
			} else {
				names[j] = h.dim.Render(name)
			}
		}
		lines[i] = m[1] + strings.Join(names, " ") + m[3] + m[4]
	}
	return strings.Join(lines, "\n")
}

// configFiles lists where configuration is read from, lowest precedence
// first.
func (h *HelpFormatter) configFiles() string {
	lines := []string{
		"  /etc/quickbook/config.yaml",
		"  $XDG_CONFIG_HOME/quickbook/config.yaml",
		"  " + strings.Join(configloader.ProjectConfigFiles, ", ") + h.dim.Render(" (searched upward)"),
		"  QUICKBOOK_* environment variables",
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled help on cmd and its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	render := func(command *cobra.Command) error {
		return tmpl.Execute(command.OutOrStdout(), command)
	}
	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
