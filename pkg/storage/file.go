// Package storage opens the local files and standard I/O streams that
// commands read from and write to.
package storage

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// StdioPath names standard input or standard output.
const StdioPath = "-"

type FileSystem struct {
	perm os.FileMode

	existsMu sync.RWMutex
	exists   map[string]struct{}
}

func NewFileSystem() *FileSystem {
	return &FileSystem{
		perm:   0666,
		exists: make(map[string]struct{}),
	}
}

// Get opens path for reading.  Regular files are returned as *os.File so
// that readers needing random access can use them.  Standard input is
// wrapped to hide its ReadAt and Seek methods, which fail on pipes.
func (f *FileSystem) Get(path string) (io.ReadCloser, error) {
	if path == StdioPath {
		return stdin{os.Stdin}, nil
	}
	r, err := os.Open(path)
	if err != nil {
		return nil, fileErr(err)
	}
	return r, nil
}

// Put creates or truncates path, creating its parent directories as
// needed.  An empty path or StdioPath is standard output, which Close
// leaves open.
func (f *FileSystem) Put(path string) (io.WriteCloser, error) {
	if path == "" || path == StdioPath {
		return stdout{os.Stdout}, nil
	}
	if err := f.checkPath(path); err != nil {
		return nil, fileErr(err)
	}
	w, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, f.perm)
	if err != nil {
		return nil, fileErr(err)
	}
	return w, nil
}

func (f *FileSystem) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fileErr(err)
	}
	return info.Size(), nil
}

func (f *FileSystem) checkPath(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	f.existsMu.RLock()
	_, ok := f.exists[dir]
	f.existsMu.RUnlock()
	if ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f.existsMu.Lock()
	f.exists[dir] = struct{}{}
	f.existsMu.Unlock()
	return nil
}

func fileErr(err error) error {
	if os.IsNotExist(err) {
		return fs.ErrNotExist
	}
	return err
}

type stdin struct {
	io.Reader
}

func (stdin) Close() error { return nil }

type stdout struct {
	io.Writer
}

func (stdout) Close() error { return nil }
