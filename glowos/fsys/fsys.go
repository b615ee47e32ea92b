// Package fsys defines the filesystem capability consumed by plugin
// persistence, bitmap resources and the update manager.
package fsys

import (
	"errors"
	"io"
)

var (
	// ErrNotMounted is returned by operations on an unmounted filesystem.
	ErrNotMounted = errors.New("filesystem not mounted")
	// ErrNotFound is returned when a file or directory does not exist.
	ErrNotFound = errors.New("file not found")
)

// File is an open file handle.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// FileSystem is the mountable storage the firmware persists into.
//
// Unmount exists so a filesystem-image update can run while the partition is
// closed; Mount brings it back. All other operations fail with ErrNotMounted
// in between.
type FileSystem interface {
	Mount() error
	Unmount()
	IsMounted() bool

	Exists(path string) bool
	Open(path string) (File, error)
	Create(path string) (File, error)
	Remove(path string) error
	Mkdir(path string) error
}

// ReadFile reads the whole file at path.
func ReadFile(fs FileSystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile replaces the file at path with data.
func WriteFile(fs FileSystem, path string, data []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
