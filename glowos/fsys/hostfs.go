//go:build !tinygo

package fsys

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// HostFS is a FileSystem rooted at a directory of the host machine.
type HostFS struct {
	mu      sync.Mutex
	root    string
	mounted bool
}

// NewHostFS returns a mounted filesystem rooted at dir, creating it if needed.
func NewHostFS(dir string) (*HostFS, error) {
	fs := &HostFS{root: dir}
	if err := fs.Mount(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *HostFS) Mount() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := os.MkdirAll(fs.root, 0o755); err != nil {
		return err
	}
	fs.mounted = true
	return nil
}

func (fs *HostFS) Unmount() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mounted = false
}

func (fs *HostFS) IsMounted() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.mounted
}

func (fs *HostFS) resolve(p string) (string, error) {
	fs.mu.Lock()
	mounted := fs.mounted
	fs.mu.Unlock()
	if !mounted {
		return "", ErrNotMounted
	}
	return filepath.Join(fs.root, filepath.FromSlash(p)), nil
}

func (fs *HostFS) Exists(p string) bool {
	full, err := fs.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (fs *HostFS) Open(p string) (File, error) {
	full, err := fs.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (fs *HostFS) Create(p string) (File, error) {
	full, err := fs.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.Create(full)
}

func (fs *HostFS) Remove(p string) error {
	full, err := fs.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (fs *HostFS) Mkdir(p string) error {
	full, err := fs.resolve(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}
