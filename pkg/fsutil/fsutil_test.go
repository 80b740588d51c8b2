package fsutil_test

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/fsutil"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.qbk")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "[article Test]\n")
		got, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "[article Test]\n", string(got))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(15), info.Size)
		assert.Equal(t, sha256.Sum256(got), info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "none.qbk"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, "doc.qbk")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(t *testing.T, path string, info *fsutil.FileInfo)
		want   bool
	}{
		{
			name:   "unchanged",
			modify: func(*testing.T, string, *fsutil.FileInfo) {},
			want:   false,
		},
		{
			name: "size change",
			modify: func(t *testing.T, path string, _ *fsutil.FileInfo) {
				require.NoError(t, os.WriteFile(path, []byte("[article Longer Title]\n"), 0o644))
			},
			want: true,
		},
		{
			name: "mod time change",
			modify: func(t *testing.T, path string, info *fsutil.FileInfo) {
				later := info.ModTime.Add(time.Hour)
				require.NoError(t, os.Chtimes(path, later, later))
			},
			want: true,
		},
		{
			name: "same size and time, new content",
			modify: func(t *testing.T, path string, info *fsutil.FileInfo) {
				require.NoError(t, os.WriteFile(path, []byte("[article Tess]\n"), 0o644))
				require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))
			},
			want: true,
		},
		{
			name: "deleted",
			modify: func(t *testing.T, path string, _ *fsutil.FileInfo) {
				require.NoError(t, os.Remove(path))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "[article Test]\n")
			_, info, err := fsutil.ReadFile(ctx, path)
			require.NoError(t, err)

			tt.modify(t, path, info)

			modified, err := fsutil.CheckModified(ctx, info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, modified)
		})
	}

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "later.qbk")

	info, err := fsutil.Snapshot(ctx, path)
	require.NoError(t, err)

	modified, err := fsutil.CheckModified(ctx, info)
	require.NoError(t, err)
	assert.False(t, modified, "a file that stays missing is unchanged")

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	modified, err = fsutil.CheckModified(ctx, info)
	require.NoError(t, err)
	assert.True(t, modified, "creating the file is a change")
}
