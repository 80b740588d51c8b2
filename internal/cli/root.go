// Package cli provides the Cobra command structure for quickbook.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickbook/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root quickbook command with all subcommands.
// The root command itself compiles a document.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	flags := &compileFlags{}

	rootCmd := &cobra.Command{
		Use:   "quickbook [flags] <input-file>",
		Short: "Convert Quickbook documents to Boostbook",
		Long: `quickbook translates Quickbook, a lightweight wiki-style markup for
documentation, into Boostbook XML.

The output is written next to the input with an .xml extension unless
--output-file is given; "-" writes to standard output. The exit code is the
number of errors reported, capped at 255.`,
		Example: `  quickbook doc/index.qbk
  quickbook -I include -D __release__ --output-file - index.qbk
  quickbook --output-deps index.deps,checked index.qbk
  quickbook --watch index.qbk`,
		Version: info.Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	addCompileFlags(rootCmd, flags)

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
