package snippets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/snippets"
)

func extract(t *testing.T, src, mode string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, s := range snippets.Extract(files.New("example", src, 106), mode) {
		out[s.ID] = s.Body.Source
	}
	return out
}

func TestExtract_Cpp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want map[string]string
	}{
		{
			name: "line markers with escaped comment",
			src:  "int a;\n//[foo\nint b;\n//` Some *text*\nint c;\n//]\n",
			want: map[string]string{"foo": "\n\n```\nint b;\n```\n\nSome *text*\n\n\n```\nint c;\n```\n\n"},
		},
		{
			name: "ignored region",
			src:  "//[foo\na\n//<-\nhidden\n//->\nb\n//]\n",
			want: map[string]string{"foo": "\n\n```\na\nb\n```\n\n"},
		},
		{
			name: "inline markers",
			src:  "/*[bar*/x = 1;/*]*/\n",
			want: map[string]string{"bar": "\n\n```\nx = 1;\n```\n\n"},
		},
		{
			name: "inline ignore",
			src:  "//[bar\nf(/*<-*/secret, /*->*/x);\n//]\n",
			want: map[string]string{"bar": "\n\n```\nf(x);\n```\n\n"},
		},
		{
			name: "nested snippets",
			src:  "//[outer\na\n//[inner\nb\n//]\nc\n//]\n",
			want: map[string]string{
				"outer": "\n\n```\na\nb\nc\n```\n\n",
				"inner": "\n\n```\nb\n```\n\n",
			},
		},
		{
			name: "unclosed snippet ends at end of file",
			src:  "//[u\nx\n",
			want: map[string]string{"u": "\n\n```\nx\n```\n\n"},
		},
		{
			name: "callouts stay in the code",
			src:  "//[c\nf(); /*< hi >*/\n//]\n",
			want: map[string]string{"c": "\n\n```\nf(); /*< hi >*/\n```\n\n"},
		},
		{
			name: "no markers",
			src:  "int main() {}\n",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract(t, tt.src, "c++"))
		})
	}
}

func TestExtract_Python(t *testing.T) {
	t.Parallel()

	src := "#[py\nx = 1\n#` Note\n\"\"\"` *doc* \"\"\"\n#]\n"
	got := extract(t, src, "python")
	assert.Equal(t, map[string]string{"py": "\n\n```\nx = 1\n```\n\nNote\n*doc* \n"}, got)
}

func TestExtract_PositionsMapToSource(t *testing.T) {
	t.Parallel()

	src := "int a;\n//[foo\nint b;\n//` Some *text*\nint c;\n//]\n"
	list := snippets.Extract(files.New("example.cpp", src, 106), "c++")
	require.Len(t, list, 1)

	body := list[0].Body
	assert.True(t, body.IsCodeSnippets)
	assert.Equal(t, "c++", list[0].Mode)

	offset := strings.Index(body.Source, "int c")
	require.GreaterOrEqual(t, offset, 0)
	assert.Equal(t, files.Position{Line: 5, Column: 1}, body.PositionOf(offset))

	offset = strings.Index(body.Source, "Some")
	assert.Equal(t, files.Position{Line: 4, Column: 5}, body.PositionOf(offset))
}
