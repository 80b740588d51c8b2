package cli_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/internal/cli"
	"github.com/yaklabco/quickbook/pkg/config"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "quickbook", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Error(t, cmd.Args(cmd, nil), "an input file is required")
	assert.NoError(t, cmd.Args(cmd, []string{"doc.qbk"}))
	assert.Error(t, cmd.Args(cmd, []string{"a.qbk", "b.qbk"}))
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCompileFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{
		"no-pretty-print", "no-self-linked-headers", "indent", "linewidth",
		"include-path", "define", "output-file", "output-deps",
		"image-location", "xinclude-base", "ms-errors", "expect-errors",
		"strict", "watch",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q", name)
	}

	assert.Equal(t, "I", cmd.Flags().Lookup("include-path").Shorthand)
	assert.Equal(t, "D", cmd.Flags().Lookup("define").Shorthand)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestExitCodeForErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		errors       int
		expectErrors bool
		want         int
	}{
		{name: "clean", errors: 0, want: cli.ExitSuccess},
		{name: "error count", errors: 3, want: 3},
		{name: "clamped", errors: 1000, want: cli.ExitMaxErrors},
		{name: "expected and found", errors: 2, expectErrors: true, want: cli.ExitSuccess},
		{name: "expected but clean", errors: 0, expectErrors: true, want: cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCodeForErrors(tt.errors, tt.expectErrors))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(errors.New("boom")))

	err := &cli.ExitError{Code: 7, Err: cli.ErrCompileFailed}
	assert.Equal(t, 7, cli.ExitCode(err))
	assert.ErrorIs(t, err, cli.ErrCompileFailed)
	assert.Equal(t, "compilation failed (exit code 7)", err.Error())
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		output string
		want   string
	}{
		{input: "doc/index.qbk", want: "doc/index.xml"},
		{input: "README", want: "README.xml"},
		{input: "doc/index.qbk", output: "-", want: "-"},
		{input: "doc/index.qbk", output: "out/book.xml", want: "out/book.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"->"+tt.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.OutputPath(&config.Config{Input: tt.input, Output: tt.output}))
		})
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "quickbook [flags] <input-file>")
	assert.Contains(t, help, "--include-path")
	assert.Contains(t, help, "Configuration:")
	assert.Contains(t, help, ".quickbook.yml")
	assert.Contains(t, help, "QUICKBOOK_*")
}

func TestSubcommandHelpOmitsConfiguration(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "--force")
	assert.NotContains(t, out.String(), "Configuration:")
}
