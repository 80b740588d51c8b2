package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices and pointers", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.IncludePaths = []string{"doc", "include"}
		original.Defines = []string{"BOOST"}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		clone.IncludePaths[0] = "changed"
		*clone.Indent = 8
		*clone.PrettyPrint = false

		assert.Equal(t, "doc", original.IncludePaths[0])
		assert.Equal(t, 2, original.IndentWidth())
		assert.True(t, original.PrettyPrintEnabled())
	})

	t.Run("copies CLI fields", func(t *testing.T) {
		t.Parallel()
		original := &config.Config{Input: "a.qbk", Output: "-", ExpectErrors: true}
		clone := original.Clone()
		assert.Equal(t, "a.qbk", clone.Input)
		assert.Equal(t, "-", clone.Output)
		assert.True(t, clone.ExpectErrors)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
include_paths:
  - ../include
defines:
  - __version__=1.0
pretty_print: false
indent: 4
diagnostic_format: ms
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"../include"}, cfg.IncludePaths)
	assert.Equal(t, []string{"__version__=1.0"}, cfg.Defines)
	assert.False(t, cfg.PrettyPrintEnabled())
	assert.Equal(t, 4, cfg.IndentWidth())
	assert.Equal(t, config.DefaultLineWidth, cfg.WrapWidth(), "unset values fall back to defaults")
	assert.Equal(t, config.DiagnosticMS, cfg.DiagnosticFormat)
	assert.Nil(t, cfg.SelfLinkedHeaders)
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "flavor: gfm\n"},
		{"wrong type", "indent: wide\n"},
		{"not a mapping", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.FromYAML([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestFromYAML_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.IncludePaths = []string{"include"}
	original.Input = "not persisted"

	data, err := original.ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# quickbook configuration\n")
	assert.NotContains(t, string(data), "not persisted")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)

	original.Input = ""
	assert.Equal(t, original, parsed)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal template parses to an empty config", func(t *testing.T) {
		t.Parallel()
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# pretty_print: true\n")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("full template carries the defaults", func(t *testing.T) {
		t.Parallel()
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, IncludePaths: []string{"include"}})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"include"}, cfg.IncludePaths)
		assert.Equal(t, config.DefaultIndent, *cfg.Indent)
		assert.True(t, *cfg.SelfLinkedHeaders)
		assert.Equal(t, config.ColorAuto, cfg.Color)
	})
}
