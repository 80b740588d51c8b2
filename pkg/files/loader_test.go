package files_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/files"
)

func TestDetectBOM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      []byte
		expected files.Encoding
	}{
		{"none", []byte("abc"), files.EncodingNone},
		{"utf-8", []byte{0xEF, 0xBB, 0xBF, 'a'}, files.EncodingUTF8},
		{"utf-16le", []byte{0xFF, 0xFE, 'a', 0}, files.EncodingUTF16LE},
		{"utf-16be", []byte{0xFE, 0xFF, 0, 'a'}, files.EncodingUTF16BE},
		{"utf-32le", []byte{0xFF, 0xFE, 0, 0}, files.EncodingUTF32LE},
		{"utf-32be", []byte{0, 0, 0xFE, 0xFF}, files.EncodingUTF32BE},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, files.DetectBOM(testCase.raw), testCase.name)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("strips utf-8 bom and normalizes newlines", func(t *testing.T) {
		t.Parallel()
		got, err := files.Decode(append([]byte{0xEF, 0xBB, 0xBF}, "a\r\nb\rc\n"...))
		require.NoError(t, err)
		assert.Equal(t, "a\nb\nc\n", got)
	})

	t.Run("transcodes utf-16le", func(t *testing.T) {
		t.Parallel()
		got, err := files.Decode([]byte{0xFF, 0xFE, 'h', 0, 'i', 0, '\n', 0})
		require.NoError(t, err)
		assert.Equal(t, "hi\n", got)
	})

	t.Run("rejects utf-32", func(t *testing.T) {
		t.Parallel()
		_, err := files.Decode([]byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'a'})
		require.ErrorIs(t, err, files.ErrLoad)
	})

	t.Run("rejects invalid utf-8", func(t *testing.T) {
		t.Parallel()
		_, err := files.Decode([]byte{'a', 0xC3, 0x28})
		require.ErrorIs(t, err, files.ErrLoad)
	})

	t.Run("keeps utf-16 replacement characters", func(t *testing.T) {
		t.Parallel()
		got, err := files.Decode([]byte{0xFE, 0xFF, 0xFF, 0xFD, 0, 'x'})
		require.NoError(t, err)
		assert.Equal(t, "\uFFFDx", got)
	})
}

func TestDecode_InvalidAfterBOM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{"utf-8 bom with invalid byte", []byte("\xEF\xBB\xBFab\xffcd")},
		{"utf-8 bom with truncated sequence", []byte("\xEF\xBB\xBFa\xC3")},
		{"utf-16le unpaired high surrogate", []byte{0xFF, 0xFE, 0x00, 0xD8, 'a', 0}},
		{"utf-16be unpaired low surrogate", []byte{0xFE, 0xFF, 0xDC, 0x00, 0, 'a'}},
		{"utf-16le odd length", []byte{0xFF, 0xFE, 'a', 0, 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := files.Decode(tt.raw)
			require.ErrorIs(t, err, files.ErrLoad)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.qbk")
	require.NoError(t, os.WriteFile(path, []byte("[article A]\r\ntext\r\n"), 0o600))

	loader := files.NewLoader(nil)
	f, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "[article A]\ntext\n", f.Source)
	assert.Equal(t, path, f.Path)

	again, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, f, again, "second load should come from the cache")

	_, err = loader.Load(context.Background(), filepath.Join(dir, "missing.qbk"))
	require.ErrorIs(t, err, files.ErrLoad)

	loader.Reset()
	fresh, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotSame(t, f, fresh)
}

func TestLoader_LoadString(t *testing.T) {
	t.Parallel()

	loader := files.NewLoader(nil)
	f := loader.LoadString("mem.qbk", "\ufeffa\r\nb")
	assert.Equal(t, "a\nb", f.Source)
	assert.Contains(t, loader.Paths(), "mem.qbk")
}
