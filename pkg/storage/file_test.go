package storage

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutCreatesDirectories(t *testing.T) {
	engine := NewFileSystem()
	path := filepath.Join(t.TempDir(), "a", "b", "out.arrows")
	w, err := engine.Put(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	size, err := engine.Size(path)
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)

	r, err := engine.Get(path)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	_, ok := r.(io.ReaderAt)
	assert.True(t, ok)
}

func TestStdio(t *testing.T) {
	engine := NewFileSystem()
	r, err := engine.Get(StdioPath)
	require.NoError(t, err)
	_, ok := r.(io.Seeker)
	assert.False(t, ok)
	assert.NoError(t, r.Close())

	w, err := engine.Put("")
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestNotExist(t *testing.T) {
	engine := NewFileSystem()
	path := filepath.Join(t.TempDir(), "missing")
	_, err := engine.Get(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = engine.Size(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
