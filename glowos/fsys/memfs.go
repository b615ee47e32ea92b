package fsys

import (
	"bytes"
	"path"
	"sync"
)

// MemFS is an in-memory FileSystem.
//
// It backs the host build before a data directory is configured and every
// test that needs storage. The zero value is unmounted.
type MemFS struct {
	mu      sync.Mutex
	mounted bool
	files   map[string][]byte
	dirs    map[string]bool
}

// NewMemFS returns a mounted, empty in-memory filesystem.
func NewMemFS() *MemFS {
	fs := &MemFS{}
	_ = fs.Mount()
	return fs
}

func (fs *MemFS) Mount() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.files == nil {
		fs.files = make(map[string][]byte)
		fs.dirs = map[string]bool{"/": true}
	}
	fs.mounted = true
	return nil
}

func (fs *MemFS) Unmount() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mounted = false
}

func (fs *MemFS) IsMounted() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.mounted
}

func (fs *MemFS) Exists(p string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.mounted {
		return false
	}
	p = path.Clean(p)
	if _, ok := fs.files[p]; ok {
		return true
	}
	return fs.dirs[p]
}

func (fs *MemFS) Open(p string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.mounted {
		return nil, ErrNotMounted
	}
	data, ok := fs.files[path.Clean(p)]
	if !ok {
		return nil, ErrNotFound
	}
	return &memReader{Reader: bytes.NewReader(data)}, nil
}

func (fs *MemFS) Create(p string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.mounted {
		return nil, ErrNotMounted
	}
	return &memWriter{fs: fs, path: path.Clean(p)}, nil
}

func (fs *MemFS) Remove(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.mounted {
		return ErrNotMounted
	}
	p = path.Clean(p)
	if _, ok := fs.files[p]; !ok {
		return ErrNotFound
	}
	delete(fs.files, p)
	return nil
}

func (fs *MemFS) Mkdir(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.mounted {
		return ErrNotMounted
	}
	fs.dirs[path.Clean(p)] = true
	return nil
}

type memReader struct {
	*bytes.Reader
}

func (r *memReader) Write(p []byte) (int, error) { return 0, ErrNotFound }
func (r *memReader) Close() error                { return nil }

type memWriter struct {
	fs   *MemFS
	path string
	buf  bytes.Buffer
}

func (w *memWriter) Read(p []byte) (int, error) { return 0, ErrNotFound }

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Close publishes the written content; nothing is visible before it.
func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	if !w.fs.mounted {
		return ErrNotMounted
	}
	w.fs.files[w.path] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}
