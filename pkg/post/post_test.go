package post_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/post"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  post.Options
		want  string
	}{
		{
			name:  "nested blocks are indented",
			input: "<section id=\"a\"><title>A</title><para>Some text.</para></section>",
			opts:  post.Options{Indent: 2, LineWidth: 80},
			want: "<section id=\"a\">\n" +
				"  <title>A</title>\n" +
				"  <para>Some text.</para>\n" +
				"</section>\n",
		},
		{
			name:  "long text is wrapped",
			input: "<section><para>one two three four five six</para></section>",
			opts:  post.Options{Indent: 2, LineWidth: 14},
			want: "<section>\n" +
				"  <para>\n" +
				"    one two\n" +
				"    three four\n" +
				"    five six\n" +
				"  </para>\n" +
				"</section>\n",
		},
		{
			name:  "inline tags stay with their words",
			input: "<para>a <emphasis role=\"bold\">b c</emphasis> d</para>",
			opts:  post.Options{Indent: 2, LineWidth: 80},
			want:  "<para>a <emphasis role=\"bold\">b c</emphasis> d</para>\n",
		},
		{
			name:  "verbatim content is preserved",
			input: "<section><programlisting>int  x;\n  y;</programlisting></section>",
			opts:  post.Options{Indent: 4, LineWidth: 80},
			want: "<section>\n" +
				"    <programlisting>int  x;\n  y;</programlisting>\n" +
				"</section>\n",
		},
		{
			name:  "prolog on its own line",
			input: "<?xml version=\"1.0\"?>\n<article><title>T</title></article>",
			opts:  post.Options{Indent: 2, LineWidth: 80},
			want: "<?xml version=\"1.0\"?>\n" +
				"<article>\n" +
				"  <title>T</title>\n" +
				"</article>\n",
		},
		{
			name:  "empty block tags",
			input: "<section><anchor id=\"x\"/><para/></section>",
			opts:  post.Options{Indent: 1},
			want:  "<section>\n <anchor id=\"x\"/>\n <para/>\n</section>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := post.Format(tt.input, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"<section><para>text</section>",
		"<para><emphasis>text</para>",
		"<section>",
		"<para>unterminated <tag",
		"<!-- open comment",
	} {
		_, err := post.Format(input, post.Options{Indent: 2, LineWidth: 80})
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, post.ErrPostProcess), input)
	}
}

func TestFormatIsStable(t *testing.T) {
	t.Parallel()

	input := "<article><title>T</title><section id=\"s\"><title>S</title>" +
		"<para>" + strings.Repeat("word ", 40) + "</para></section></article>"
	opts := post.Options{Indent: 2, LineWidth: 60}

	once, err := post.Format(input, opts)
	require.NoError(t, err)
	twice, err := post.Format(once, opts)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
