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

	"github.com/yaklabco/turbocop/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and identity", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.rb")
		content := []byte("x = 1\n")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		got, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.Equal(t, sha256.Sum256(content), info.Hash)
		assert.Equal(t, fsutil.HashBytes(content), info.Digest())
		assert.Len(t, info.Digest(), 64)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.rb"))
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
		_, _, err := fsutil.ReadFile(ctx, "whatever.rb")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSameStat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.rb")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	_, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.SameStat(stat))

	later := info.ModTime.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	stat, err = os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.SameStat(stat))
	assert.False(t, info.SameStat(nil))
}

func TestHashBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		fsutil.HashBytes(nil))
	assert.NotEqual(t, fsutil.HashBytes([]byte("a")), fsutil.HashBytes([]byte("b")))
}
