// Package storage is the shared upload directory behind both UDP transfer
// paths. Files are identified by bare name only; the last writer for a
// name wins.
package storage

import (
	"io"
	"os"
	"path/filepath"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/gabriel-vasile/mimetype"
)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// path confines every name to the store directory. Names arrive off the
// wire, so anything resembling a path is reduced to its base.
func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Create opens the named file for writing, truncating any previous
// content. The caller streams bytes in and closes.
func (s *FileStore) Create(name string) (io.WriteCloser, error) {
	return os.Create(s.path(name))
}

// Open returns the file's content and size, or ErrFileNotFound.
func (s *FileStore) Open(name string) (io.ReadCloser, int64, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, 0, errors.ErrFileNotFound
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, stat.Size(), nil
}

// Size reports the stored size of a file, or ErrFileNotFound.
func (s *FileStore) Size(name string) (int64, error) {
	stat, err := os.Stat(s.path(name))
	if err != nil || stat.IsDir() {
		return 0, errors.ErrFileNotFound
	}
	return stat.Size(), nil
}

// List snapshots the directory contents, skipping subdirectories.
func (s *FileStore) List() ([]domain.StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var files []domain.StoredFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.StoredFile{Name: entry.Name(), Size: info.Size()})
	}
	return files, nil
}

// DetectMime sniffs the stored file's MIME type. Detection failures fall
// back to the generic binary type; the result is informational only.
func (s *FileStore) DetectMime(name string) string {
	mtype, err := mimetype.DetectFile(s.path(name))
	if err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}
