package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickbook/internal/configloader"
	"github.com/yaklabco/quickbook/internal/logging"
	"github.com/yaklabco/quickbook/pkg/config"
)

// errInitDeclined is returned when the user refuses to overwrite a config.
var errInitDeclined = errors.New("init cancelled")

// initFlags holds the flags for the init command.
type initFlags struct {
	force        bool
	full         bool
	output       string
	includePaths []string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new quickbook configuration file",
		Long: `Create a new .quickbook.yml configuration file in the current directory.
The file is found automatically when compiling documents in this directory
or below it.

Examples:
  quickbook init                        Create a commented .quickbook.yml
  quickbook init --full                 Write every setting with its default
  quickbook init -I ../include          Pre-fill the include path
  quickbook init --output custom.yml    Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigFiles[0], "Output file path")
	cmd.Flags().StringArrayVarP(&flags.includePaths, "include-path", "I", nil, "Include directory to record")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.FromContext(cmd.Context())

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !configloader.Interactive() {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		overwrite, err := configloader.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", flags.output), false)
		if err != nil {
			return err
		}
		if !overwrite {
			return errInitDeclined
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:         flags.full,
		IncludePaths: flags.includePaths,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(cmd.Context(), absPath, content); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("environment variables override it; run with --debug to see which files were loaded")

	return nil
}
