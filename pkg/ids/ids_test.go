package ids_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/ids"
)

func TestReplace_DuplicateGeneratedIDs(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	a := m.AddID("foo", ids.CategoryGeneratedSection)
	b := m.AddID("foo", ids.CategoryGeneratedSection)

	out := m.Replace(`<section id="` + a + `"/><section id="` + b + `"/>`)
	assert.Equal(t, `<section id="foo"/><section id="foo_0"/>`, out)
}

func TestReplace_ExplicitBeatsGenerated(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	generated := m.AddID("foo", ids.CategoryGeneratedHeading)
	anchor := m.AddAnchor("foo", ids.CategoryExplicitAnchorID)

	out := m.Replace(`<h id="` + generated + `"/><anchor id="` + anchor + `"/>`)
	assert.Equal(t, `<h id="foo_0"/><anchor id="foo"/>`, out)
}

func TestReplace_QualifiedBySection(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	doc := m.BeginFile("doc", ids.CategoryExplicitSectionID)
	sec := m.BeginSection("intro", ids.CategoryGeneratedSection)
	heading := m.AddID("usage", ids.CategoryGeneratedHeading)
	require.True(t, m.EndSection())
	m.EndFile()

	markup := `<article id="` + doc + `"><section id="` + sec + `">` +
		`<anchor id="` + heading + `"/><link linkend="` + heading + `"/></section></article>`
	out := m.Replace(markup)

	assert.Equal(t, `<article id="doc"><section id="doc.intro">`+
		`<anchor id="doc.intro.usage"/><link linkend="doc.intro.usage"/></section></article>`, out)
}

func TestReplace_AncestorsResolvedWhenUnused(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	m.BeginFile("lib", ids.CategoryExplicitSectionID)
	sec := m.BeginSection("part", ids.CategoryExplicitSectionID)

	out := m.Replace(`<x linkend="` + sec + `"/>`)
	assert.Equal(t, `<x linkend="lib.part"/>`, out)
}

func TestReplace_NumberedNeverVerbatim(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	first := m.AddID("f", ids.CategoryNumbered)
	second := m.AddID("f", ids.CategoryNumbered)

	out := m.Replace(`<footnote id="` + first + `"/><footnote id="` + second + `"/>`)
	assert.Equal(t, `<footnote id="f_0"/><footnote id="f_1"/>`, out)
}

func TestReplace_EscapedDollar(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	out := m.Replace(`<link linkend="` + ids.Escape("a$b") + `">a$b</link>`)
	assert.Equal(t, `<link linkend="a$b">a$b</link>`, out)
}

func TestReplace_ExplicitIDsAreAttributeEncoded(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	m.BeginFile("doc", ids.CategoryExplicitSectionID)
	anchor := m.AddAnchor(`a"b<c`, ids.CategoryExplicitAnchorID)
	section := m.BeginSection("x&y", ids.CategoryExplicitSectionID)
	dollar := m.AddAnchor("p$1", ids.CategoryExplicitAnchorID)

	out := m.Replace(`<anchor id="` + anchor + `"/><section id="` + section + `"/><anchor id="` + dollar + `"/>`)
	assert.Equal(t, `<anchor id="a&#34;b&lt;c"/><section id="doc.x&amp;y"/><anchor id="p$1"/>`, out)
}

func TestReplace_OnlyIDAttributes(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	p := m.AddID("x", ids.CategoryExplicitID)

	markup := `<!-- id="` + p + `" --><a role="` + p + `" id="` + p + `">` + p + `</a>`
	out := m.Replace(markup)
	assert.Equal(t, `<!-- id="$0" --><a role="$0" id="x">$0</a>`, out)
}

func TestReplace_LinkendsList(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	c0 := m.AddID("c", ids.CategoryNumbered)
	c1 := m.AddID("c", ids.CategoryNumbered)

	out := m.Replace(`<co linkends="` + c0 + ` ` + c1 + `"/>`)
	assert.Equal(t, `<co linkends="c_0 c_1"/>`, out)
}

func TestReplace_LongGeneratedIDTruncated(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	long := strings.Repeat("a", 40)
	p := m.AddID(long, ids.CategoryGeneratedHeading)

	out := m.Replace(`<a id="` + p + `"/>`)
	assert.Equal(t, `<a id="`+strings.Repeat("a", 30)+`_0"/>`, out)
}

func TestReplace_Deterministic(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	var markup strings.Builder
	for range 5 {
		markup.WriteString(`<s id="` + m.AddID("same", ids.CategoryGenerated) + `"/>`)
	}

	first := m.Replace(markup.String())
	second := m.Replace(markup.String())
	assert.Equal(t, first, second)
	assert.Equal(t, `<s id="same"/><s id="same_0"/><s id="same_1"/><s id="same_2"/><s id="same_3"/>`, first)
}

func TestOldStyleID(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	m.BeginFile("doc", ids.CategoryExplicitSectionID)
	m.BeginSection("sec", ids.CategoryGeneratedSection)
	p := m.OldStyleID("h", ids.CategoryGeneratedHeading)

	out := m.Replace(`<a id="` + p + `"/>`)
	assert.Equal(t, `<a id="doc.sec.h"/>`, out)
}

func TestSectionLevels(t *testing.T) {
	t.Parallel()

	m := ids.NewManager()
	m.BeginFile("", ids.CategoryGeneratedDoc)
	assert.False(t, m.EndSection())

	m.BeginSection("a", ids.CategoryGeneratedSection)
	m.BeginFile("", ids.CategoryGeneratedDoc)
	assert.Equal(t, 0, m.FileSectionLevel())
	assert.Equal(t, 1, m.SectionLevel())
	assert.False(t, m.EndSection(), "cannot close a section opened by the including file")
	m.EndFile()

	assert.Equal(t, 1, m.FileSectionLevel())
	assert.True(t, m.EndSection())
}

func TestMakeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting_started"},
		{"  A -- B  ", "a_b"},
		{"C++ Support", "c_support"},
		{"already_an_id", "already_an_id"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids.MakeID(tt.in))
		})
	}
}

func TestFromTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bold_amp", ids.FromTitle(`<emphasis role="bold">Bold</emphasis> &amp; amp`))
}
