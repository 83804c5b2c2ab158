package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoRecord indicates no session record has been persisted.
var ErrNoRecord = errors.New("session: no record")

// Store is the persistent key-value cache the manager keeps its record in.
// Implementations must make Clear idempotent.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileStore persists the session record as a single file in the user's
// config directory.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore rooted at the platform config directory.
func NewFileStore(appName string) (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("session: config dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, appName, "session.json")}, nil
}

// NewFileStoreAt builds a FileStore at an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted record.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return data, nil
}

// Save writes the record with owner-only permissions.
func (s *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)
