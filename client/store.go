package client

import (
	"os"
	"path/filepath"
	"strings"
)

// SessionStore persists the opaque session identifier across runs of
// the client. Get returns the empty string when nothing is stored.
type SessionStore interface {
	Get() (string, error)
	Set(identifier string) error
	Clear() error
}

// FileStore keeps the identifier in a single file, the local-storage
// analog for a headless client.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Set(identifier string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(identifier), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
