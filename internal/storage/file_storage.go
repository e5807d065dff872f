package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStorage provides methods to manage files in a specific directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a new FileStorage instance with the given directory.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Init creates the storage directory if it does not exist yet.
func (s *FileStorage) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", s.dir, err)
	}
	return nil
}

// Dir returns the storage directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the full path of filename inside the storage directory.
func (s *FileStorage) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// FileExists checks whether a file exists in the storage directory.
func (s *FileStorage) FileExists(filename string) bool {
	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// WriteFile writes data to filename, replacing any existing file.
func (s *FileStorage) WriteFile(filename string, data []byte) error {
	_, err := s.CopyFile(bytes.NewReader(data), filename)
	return err
}

// CopyFile streams src into dstFilename, replacing any existing file.
// Data goes to a temporary file in the same directory that is renamed into place only
// after a complete copy, so a failed copy never leaves a truncated file behind.
// Returns the number of bytes written and any error encountered.
func (s *FileStorage) CopyFile(src io.Reader, dstFilename string) (int64, error) {
	tmp, err := os.CreateTemp(s.dir, "."+dstFilename+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("write file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("chmod file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(dstFilename)); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("rename file: %w", err)
	}

	return n, nil
}

// Remove deletes filename; a missing file is not an error.
func (s *FileStorage) Remove(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
