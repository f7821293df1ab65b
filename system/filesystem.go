// Package system provides the file systems content stores are kept on.
package system

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing/fstest"
	"time"
)

type VirtualFS interface {
	fs.FS
}

// WritableFS is a VirtualFS that can also create files. Names follow the io/fs
// conventions: slash separated and unrooted.
type WritableFS interface {
	VirtualFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(name string, perm fs.FileMode) error
}

// FileSystem is a WritableFS rooted at a directory on disk.
type FileSystem struct {
	Root string
}

var _ WritableFS = (*FileSystem)(nil)

func (f *FileSystem) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return os.Open(f.path(name))
}

func (f *FileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	return os.WriteFile(f.path(name), data, perm)
}

func (f *FileSystem) MkdirAll(name string, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrInvalid}
	}
	return os.MkdirAll(f.path(name), perm)
}

func (f *FileSystem) path(name string) string {
	return filepath.Join(f.Root, filepath.FromSlash(name))
}

// MemFS is an in-memory WritableFS, safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files fstest.MapFS
}

var _ WritableFS = (*MemFS)(nil)

func NewMemFS() *MemFS {
	return &MemFS{files: fstest.MapFS{}}
}

func (m *MemFS) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files.Open(name)
}

// WriteFile stores a copy of data. Parent directories are implied.
func (m *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: perm, ModTime: time.Now()}
	return nil
}

func (m *MemFS) MkdirAll(name string, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.files[name] = &fstest.MapFile{Mode: fs.ModeDir | perm, ModTime: time.Now()}
	}
	return nil
}
