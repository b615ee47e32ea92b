package fsys

import (
	"errors"
	"testing"
)

func TestMemFSReadWrite(t *testing.T) {
	fs := NewMemFS()

	if err := WriteFile(fs, "/settings.toml", []byte("hostname = \"glow\"")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !fs.Exists("/settings.toml") {
		t.Fatal("written file does not exist")
	}

	data, err := ReadFile(fs, "/settings.toml")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hostname = \"glow\"" {
		t.Fatalf("read back %q", data)
	}
}

func TestMemFSMissingFile(t *testing.T) {
	fs := NewMemFS()
	if _, err := ReadFile(fs, "/absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemFSUnmountBlocksAccess(t *testing.T) {
	fs := NewMemFS()
	if err := WriteFile(fs, "/a", []byte("x")); err != nil {
		t.Fatal(err)
	}

	fs.Unmount()
	if fs.IsMounted() {
		t.Fatal("still mounted after Unmount")
	}
	if _, err := ReadFile(fs, "/a"); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("read on unmounted fs: err = %v, want ErrNotMounted", err)
	}

	// Content survives a remount cycle.
	if err := fs.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	data, err := ReadFile(fs, "/a")
	if err != nil || string(data) != "x" {
		t.Fatalf("after remount: %q, %v", data, err)
	}
}

func TestMemFSRemove(t *testing.T) {
	fs := NewMemFS()
	if err := WriteFile(fs, "/a", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove("/a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fs.Exists("/a") {
		t.Fatal("file still exists after Remove")
	}
	if err := fs.Remove("/a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Remove: err = %v, want ErrNotFound", err)
	}
}

func TestMemFSWritePublishesOnClose(t *testing.T) {
	fs := NewMemFS()
	f, err := fs.Create("/a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.Write([]byte("partial")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := ReadFile(fs, "/a"); err == nil {
		// Depending on Create semantics an empty file may exist, but the
		// payload must not be visible before Close.
		data, _ := ReadFile(fs, "/a")
		if string(data) == "partial" {
			t.Fatal("content visible before Close")
		}
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := ReadFile(fs, "/a")
	if err != nil || string(data) != "partial" {
		t.Fatalf("after close: %q, %v", data, err)
	}
}

func TestHostFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewHostFS(dir)
	if err != nil {
		t.Fatalf("NewHostFS: %v", err)
	}

	if err := fs.Mkdir("/configuration"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := WriteFile(fs, "/configuration/1.json", []byte("{}")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := ReadFile(fs, "/configuration/1.json")
	if err != nil || string(data) != "{}" {
		t.Fatalf("read back %q, %v", data, err)
	}
	if _, err := ReadFile(fs, "/configuration/2.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing file err = %v, want ErrNotFound", err)
	}
}
