package files_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/files"
)

func TestMappedFileBuilder_AddAndAddAtPos(t *testing.T) {
	t.Parallel()

	original := files.New("orig.qbk", "abc\ndef\n", 106)

	builder := files.NewMappedFileBuilder()
	builder.Start(original)
	assert.True(t, builder.Empty())

	builder.AddRange(4, 7)
	builder.AddAtPos("XYZ", 0)
	builder.AddRange(0, 3)
	assert.Equal(t, 9, builder.Pos())

	mapped := builder.Release()
	require.Equal(t, "defXYZabc", mapped.Source)
	assert.True(t, mapped.IsMapped())
	assert.Equal(t, "orig.qbk", mapped.Path)
	assert.Equal(t, 106, mapped.Version)
	assert.Same(t, original, mapped.Original())

	assert.Equal(t, files.Position{Line: 2, Column: 2}, mapped.PositionOf(1))
	assert.Equal(t, files.Position{Line: 1, Column: 1}, mapped.PositionOf(3))
	assert.Equal(t, files.Position{Line: 1, Column: 1}, mapped.PositionOf(5))
	assert.Equal(t, files.Position{Line: 1, Column: 2}, mapped.PositionOf(7))
}

func TestMappedFileBuilder_UnindentPositions(t *testing.T) {
	t.Parallel()

	source := "line one\n    code a\n      code b\nend\n"
	original := files.New("", source, 0)
	begin := strings.Index(source, "    code a")
	end := strings.Index(source, "end")

	builder := files.NewMappedFileBuilder()
	builder.Start(original)
	builder.UnindentAndAdd(begin, end)
	mapped := builder.Release()

	require.Equal(t, "code a\n  code b\n", mapped.Source)
	assert.Equal(t, files.Position{Line: 2, Column: 5}, mapped.PositionOf(0))
	assert.Equal(t, files.Position{Line: 3, Column: 5}, mapped.PositionOf(7))
	assert.Equal(t, files.Position{Line: 3, Column: 7}, mapped.PositionOf(9))
}

func TestMappedFileBuilder_MixedIndentation(t *testing.T) {
	t.Parallel()

	original := files.New("", "\tfoo\n  bar\n", 0)

	builder := files.NewMappedFileBuilder()
	builder.Start(original)
	builder.UnindentAndAdd(0, len(original.Source))
	mapped := builder.Release()

	require.Equal(t, "  foo\nbar\n", mapped.Source)

	// Padding replacing the straddled tab resolves to the line start.
	assert.Equal(t, files.Position{Line: 1, Column: 1}, mapped.PositionOf(0))
	assert.Equal(t, files.Position{Line: 1, Column: 1}, mapped.PositionOf(1))
	assert.Equal(t, files.Position{Line: 1, Column: 2}, mapped.PositionOf(2))
	assert.Equal(t, files.Position{Line: 2, Column: 3}, mapped.PositionOf(6))
}

func TestMappedFileBuilder_AddBuilder(t *testing.T) {
	t.Parallel()

	original := files.New("", "0123456789\n  abc\n  def\n", 0)

	inner := files.NewMappedFileBuilder()
	inner.Start(original)
	inner.AddRange(2, 6)
	inner.UnindentAndAdd(11, len(original.Source))
	require.Equal(t, "2345abc\ndef\n", inner.Text())

	outer := files.NewMappedFileBuilder()
	outer.Start(original)
	outer.AddAtPos(">", 0)
	outer.AddBuilder(inner, 3, 10)
	mapped := outer.Release()

	require.Equal(t, ">5abc\nde", mapped.Source)
	assert.Equal(t, 5, mapped.OriginalOffset(1))
	assert.Equal(t, 13, mapped.OriginalOffset(2))
	assert.Equal(t, files.Position{Line: 3, Column: 3}, mapped.PositionOf(6))
}

func TestMappedFile_NormalSectionsMatchOriginal(t *testing.T) {
	t.Parallel()

	source := "[section Foo]\n  int x;\n\tint y;\nText [endsect]\n"
	original := files.New("", source, 0)

	builder := files.NewMappedFileBuilder()
	builder.Start(original)
	builder.AddRange(0, 14)
	builder.AddAtPos("\n\n", 14)
	builder.UnindentAndAdd(14, 31)
	builder.AddRange(31, len(source))
	mapped := builder.Release()

	// Every byte copied verbatim maps back to an identical original byte.
	for offset := 0; offset < 14; offset++ {
		assert.Equal(t, mapped.Source[offset], source[mapped.OriginalOffset(offset)], "offset %d", offset)
	}
	tail := len(mapped.Source) - (len(source) - 31)
	for offset := tail; offset < len(mapped.Source); offset++ {
		assert.Equal(t, mapped.Source[offset], source[mapped.OriginalOffset(offset)], "offset %d", offset)
	}
	for offset := 16; offset < tail; offset++ {
		if mapped.Source[offset] == ' ' {
			continue
		}
		assert.Equal(t, mapped.Source[offset], source[mapped.OriginalOffset(offset)], "offset %d", offset)
	}
}
