package deps_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/deps"
)

func TestTracker_Formats(t *testing.T) {
	t.Parallel()

	dir := filepath.ToSlash(t.TempDir())
	tr := deps.NewTracker()
	assert.True(t, tr.Add(dir+"/b.qbk", true))
	assert.False(t, tr.Add(dir+"/a.png", false))
	tr.Add(dir+"/c.hpp", true)

	assert.Equal(t, dir+"/b.qbk\n"+dir+"/c.hpp\n", tr.Write(deps.FormatDefault))
	assert.Equal(t, "-"+dir+"/a.png\n+"+dir+"/b.qbk\n+"+dir+"/c.hpp\n", tr.Write(deps.FormatChecked))
}

func TestTracker_FoundIsSticky(t *testing.T) {
	t.Parallel()

	dir := filepath.ToSlash(t.TempDir())
	tr := deps.NewTracker()
	tr.Add(dir+"/x.qbk", true)
	tr.Add(dir+"/./x.qbk", false)

	assert.Equal(t, []string{dir + "/x.qbk"}, tr.All())
	assert.Equal(t, []string{dir + "/x.qbk"}, tr.Found())
}

func TestTracker_Escaped(t *testing.T) {
	t.Parallel()

	dir := filepath.ToSlash(t.TempDir())
	tr := deps.NewTracker()
	tr.Add(dir+"/plain.qbk", true)
	tr.Add(dir+"/tab\there.qbk", true)

	assert.Equal(t, dir+"/plain.qbk\n\\"+dir+"/tab\\there.qbk\n", tr.Write(deps.FormatEscaped))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want deps.Format
	}{
		{"", deps.FormatDefault},
		{"deps", deps.FormatDefault},
		{"checked", deps.FormatChecked},
		{"escaped", deps.FormatEscaped},
	}
	for _, tt := range tests {
		got, err := deps.ParseFormat(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := deps.ParseFormat("bogus")
	require.ErrorIs(t, err, deps.ErrUnknownFormat)
}
