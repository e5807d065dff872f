package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func makeTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "filestorage_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.read {
		return 0, errors.New("connection reset")
	}
	r.read = true
	return copy(p, r.data), nil
}

func TestFileStorage_Init(t *testing.T) {
	dir := filepath.Join(makeTempDir(t), "nested", "covers")
	fs := NewFileStorage(dir)

	if err := fs.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", dir)
	}

	if err := fs.Init(); err != nil {
		t.Errorf("second Init should be a no-op, got %v", err)
	}
}

func TestFileStorage_CopyFile(t *testing.T) {
	dir := makeTempDir(t)
	fs := NewFileStorage(dir)

	srcData := []byte("copy test content")
	srcReader := bytes.NewReader(srcData)

	n, err := fs.CopyFile(srcReader, "copied.jpg")
	if err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}

	if n != int64(len(srcData)) {
		t.Errorf("expected copied bytes %d, got %d", len(srcData), n)
	}

	readBack, err := os.ReadFile(filepath.Join(dir, "copied.jpg"))
	if err != nil {
		t.Fatalf("failed to read copied file: %v", err)
	}

	if !bytes.Equal(readBack, srcData) {
		t.Errorf("copied content mismatch: got %q, want %q", readBack, srcData)
	}
}

func TestFileStorage_CopyFileOverwrites(t *testing.T) {
	dir := makeTempDir(t)
	fs := NewFileStorage(dir)

	if err := fs.WriteFile("v1.jpg", []byte("old and longer content")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := fs.CopyFile(bytes.NewReader([]byte("new")), "v1.jpg"); err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}

	content, err := os.ReadFile(fs.Path("v1.jpg"))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(content) != "new" {
		t.Errorf("expected 'new', got %q", string(content))
	}
}

func TestFileStorage_CopyFileFailureLeavesNothing(t *testing.T) {
	dir := makeTempDir(t)
	fs := NewFileStorage(dir)

	_, err := fs.CopyFile(&failingReader{data: []byte("partial")}, "broken.jpg")
	if err == nil {
		t.Fatalf("expected error from failing reader")
	}

	if fs.FileExists("broken.jpg") {
		t.Errorf("expected no file after failed copy")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestFileStorage_CopyFileMissingDir(t *testing.T) {
	fs := NewFileStorage(filepath.Join(makeTempDir(t), "absent"))

	if _, err := fs.CopyFile(io.LimitReader(bytes.NewReader([]byte("x")), 1), "x.jpg"); err == nil {
		t.Errorf("expected error when directory does not exist")
	}
}

func TestFileStorage_FileExistsFalse(t *testing.T) {
	dir := makeTempDir(t)
	fs := NewFileStorage(dir)

	if fs.FileExists("no_such_file.jpg") {
		t.Errorf("expected FileExists to return false for non-existing file")
	}
}

func TestFileStorage_Remove(t *testing.T) {
	dir := makeTempDir(t)
	fs := NewFileStorage(dir)

	if err := fs.WriteFile("gone.jpg", []byte("x")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := fs.Remove("gone.jpg"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if fs.FileExists("gone.jpg") {
		t.Errorf("expected file to be removed")
	}
	if err := fs.Remove("gone.jpg"); err != nil {
		t.Errorf("removing a missing file should not fail, got %v", err)
	}
}
