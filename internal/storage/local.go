package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes files into a directory that is served statically
// under publicPath.
type LocalStorage struct {
	dir        string
	publicPath string
}

// NewLocalStorage creates the upload directory if needed
func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", absDir, err)
	}
	return &LocalStorage{
		dir:        absDir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

// Dir returns the absolute upload directory
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes body to key and returns its public path
func (s *LocalStorage) Save(_ context.Context, key string, body io.ReadSeeker, _ int64, _ string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(p)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", err
	}
	return s.URL(key), nil
}

// Delete removes key; a missing file is not an error
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every file in the upload directory
func (s *LocalStorage) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Key:     e.Name(),
			URL:     s.URL(e.Name()),
			ModTime: info.ModTime(),
		})
	}
	return objects, nil
}

// URL returns the public path of key
func (s *LocalStorage) URL(key string) string {
	return path.Join(s.publicPath, key)
}

func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}
