package configloader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/config"
)

// projectDir returns a temp directory marked as a VCS root so the upward
// search stops there.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.True(t, result.Config.PrettyPrintEnabled())
	assert.True(t, result.Config.SelfLinkedHeadersEnabled())
	assert.Equal(t, config.DefaultIndent, result.Config.IndentWidth())
	assert.Equal(t, config.DefaultLineWidth, result.Config.WrapWidth())
	assert.Equal(t, config.DepsFormatDeps, result.Config.DepsFormat)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	content := "pretty_print: false\nindent: 4\ndefines:\n  - __release__\n"
	path := filepath.Join(dir, ".quickbook.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sub := filepath.Join(dir, "doc", "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	assert.Equal(t, []string{path}, result.LoadedFrom)
	assert.False(t, result.Config.PrettyPrintEnabled())
	assert.Equal(t, 4, result.Config.IndentWidth())
	assert.Equal(t, config.DefaultLineWidth, result.Config.WrapWidth())
	assert.Equal(t, []string{"__release__"}, result.Config.Defines)
}

func TestLoad_ExplicitConfigSkipsProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".quickbook.yml"), []byte("indent: 4\n"), 0o644))

	explicit := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("linewidth: 100\n"), 0o644))

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{explicit}, result.LoadedFrom)
	assert.Equal(t, explicit, result.Paths.Explicit)
	assert.Equal(t, config.DefaultIndent, result.Config.IndentWidth())
	assert.Equal(t, 100, result.Config.WrapWidth())
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	content := "self_linked_headers: false\nlinewidth: 60\ninclude_paths:\n  - " + dir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".quickbook.yml"), []byte(content), 0o644))

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		LineWidth:    config.Int(0),
		IncludePaths: []string{dir, filepath.Join(dir, "missing")},
		Input:        "doc.qbk",
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.False(t, result.Config.SelfLinkedHeadersEnabled())
	assert.Equal(t, 0, result.Config.WrapWidth(), "an explicit zero from the command line wins")
	assert.Equal(t, []string{dir, filepath.Join(dir, "missing")}, result.Config.IncludePaths)
	assert.Equal(t, "doc.qbk", result.Config.Input)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "does not exist")
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "indent: [\n", wantErr: "parse"},
		{name: "unknown key", content: "flavor: gfm\n", wantErr: "flavor"},
		{name: "negative indent", content: "indent: -1\n", wantErr: "indent must be >= 0"},
		{name: "bad deps format", content: "deps_format: json\n", wantErr: "invalid deps format"},
		{name: "bad color", content: "color: sometimes\n", wantErr: "invalid color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".quickbook.yml"), []byte(tt.content), 0o644))

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(projectDir(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Environment(t *testing.T) {
	dir := projectDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".quickbook.yml"), []byte("indent: 4\n"), 0o644))

	t.Setenv("QUICKBOOK_INDENT", "8")
	t.Setenv("QUICKBOOK_PRETTY_PRINT", "false")
	t.Setenv("QUICKBOOK_DEFINES", "a=1, b")

	opts := isolated(dir)
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{Indent: config.Int(3)}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Config.IndentWidth())
	assert.False(t, result.Config.PrettyPrintEnabled())
	assert.Equal(t, []string{"a=1", "b"}, result.Config.Defines)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("QUICKBOOK_LINEWIDTH", "wide")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUICKBOOK_LINEWIDTH")
}

func TestLoadFromEnv_IncludePath(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv("QUICKBOOK_INCLUDE_PATH", "one"+sep+" two "+sep+sep)

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))
	assert.Equal(t, []string{"one", "two"}, cfg.IncludePaths)
}

func TestGetEnvVarName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "QUICKBOOK_LINEWIDTH", GetEnvVarName("linewidth"))
	assert.Equal(t, "QUICKBOOK_INCLUDE_PATH", GetEnvVarName("include_paths"))
	assert.Empty(t, GetEnvVarName("nonexistent"))
	assert.Len(t, ListEnvVars(), len(envMappings))
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.IncludePaths = []string{"a"}
	base.ImageLocation = "images"

	override := &config.Config{
		PrettyPrint:  config.Bool(false),
		IncludePaths: []string{"b", "a"},
		Color:        config.ColorNever,
	}

	got := MergeAll(base, nil, override)

	assert.False(t, got.PrettyPrintEnabled())
	assert.True(t, got.SelfLinkedHeadersEnabled())
	assert.Equal(t, []string{"a", "b"}, got.IncludePaths)
	assert.Equal(t, "images", got.ImageLocation)
	assert.Equal(t, config.ColorNever, got.Color)
	assert.True(t, base.PrettyPrintEnabled(), "inputs are not modified")
	assert.Equal(t, []string{"a"}, base.IncludePaths)
	assert.Nil(t, MergeAll())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          *config.Config
		wantErrors   []string
		wantWarnings []string
	}{
		{name: "nil", cfg: nil},
		{name: "defaults", cfg: config.NewConfig()},
		{
			name:       "negative linewidth",
			cfg:        &config.Config{LineWidth: config.Int(-5)},
			wantErrors: []string{"linewidth"},
		},
		{
			name:       "bad diagnostic format",
			cfg:        &config.Config{DiagnosticFormat: "xml"},
			wantErrors: []string{"diagnostic_format"},
		},
		{
			name:       "malformed define",
			cfg:        &config.Config{Defines: []string{"=value", "has space=1"}},
			wantErrors: []string{"defines[0]", "defines[1]"},
		},
		{
			name:         "duplicate define",
			cfg:          &config.Config{Defines: []string{"a=1", "a=2"}},
			wantWarnings: []string{"defines[1]"},
		},
		{
			name:       "empty include path",
			cfg:        &config.Config{IncludePaths: []string{""}},
			wantErrors: []string{"include_paths[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(tt.cfg)
			require.Len(t, result.Errors, len(tt.wantErrors))
			require.Len(t, result.Warnings, len(tt.wantWarnings))
			for i, want := range tt.wantErrors {
				assert.Equal(t, want, result.Errors[i].Field)
			}
			for i, want := range tt.wantWarnings {
				assert.Equal(t, want, result.Warnings[i].Field)
			}
			assert.Equal(t, len(tt.wantErrors) == 0, result.Valid())
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	result := ValidateWithFile(&config.Config{Indent: config.Int(-1)}, "conf.yml")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "conf.yml: indent: indent must be >= 0", result.Errors[0].Error())
	assert.Equal(t, []string{"error: conf.yml: indent: indent must be >= 0"}, result.AllMessages())
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", def: true, want: false},
		{input: "\n", def: true, want: true},
		{input: "", def: true, want: true},
		{input: "maybe\n", def: true, want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.input), &out, "Overwrite?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), "Overwrite? ["))
		})
	}
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".quickbook.yml")
	require.NoError(t, WriteConfig(context.Background(), path, []byte("indent: 2\n")))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.IndentWidth())
}

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	t.Run("stops at Jamroot", func(t *testing.T) {
		t.Parallel()

		outer := projectDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(outer, ".quickbook.yml"), []byte("indent: 4\n"), 0o644))

		lib := filepath.Join(outer, "libs", "spirit")
		doc := filepath.Join(lib, "doc")
		require.NoError(t, os.MkdirAll(doc, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(lib, "Jamroot"), nil, 0o644))

		path, err := FindProjectConfig(context.Background(), doc)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("prefers dotted yml", func(t *testing.T) {
		t.Parallel()

		dir := projectDir(t)
		for _, name := range []string{"quickbook.yaml", ".quickbook.yml"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		path, err := FindProjectConfig(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".quickbook.yml"), path)
	})

	t.Run("directory named like a config is ignored", func(t *testing.T) {
		t.Parallel()

		dir := projectDir(t)
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".quickbook.yml"), 0o755))

		path, err := FindProjectConfig(context.Background(), dir)
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}
