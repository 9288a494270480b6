// Package storage implements the local-disk file store for uploaded photos.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores uploaded binaries in a single flat directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// The directory is created if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// path resolves a filename inside the base directory. Filenames are generated
// server-side, but path separators are still rejected to keep lookups inside
// the store.
func (s *LocalStorage) path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename %q: %w", filename, os.ErrNotExist)
	}
	return filepath.Join(s.basePath, filename), nil
}

// Create creates a new file and returns a WriteCloser
func (s *LocalStorage) Create(filename string) (io.WriteCloser, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

// Open opens a file for reading and returns a ReadCloser
func (s *LocalStorage) Open(filename string) (io.ReadCloser, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// OpenFile opens a file and returns *os.File for use with http.ServeContent
func (s *LocalStorage) OpenFile(filename string) (*os.File, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a file
func (s *LocalStorage) Delete(filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
