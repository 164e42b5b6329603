package studio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Markers are the two values persisted between runs to restore a login.
type Markers struct {
	AuthUser  string `toml:"auth_user"`  // serialized session record (JSON)
	AuthToken string `toml:"auth_token"` // bearer token
}

// MarkerStore persists Markers. Load returns nil and no error when nothing is stored.
type MarkerStore interface {
	Load() (*Markers, error)
	Save(m Markers) error
	Clear() error
}

// FileMarkerStore keeps the markers in a TOML file.
type FileMarkerStore struct {
	path string
}

func NewFileMarkerStore(path string) *FileMarkerStore {
	return &FileMarkerStore{path: path}
}

func (f *FileMarkerStore) Path() string {
	return f.path
}

func (f *FileMarkerStore) Load() (*Markers, error) {
	var m Markers
	if _, err := toml.DecodeFile(f.path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file %s: %w", f.path, err)
	}
	if m.AuthUser == "" && m.AuthToken == "" {
		return nil, nil
	}
	return &m, nil
}

func (f *FileMarkerStore) Save(m Markers) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write session file %s: %w", f.path, err)
	}
	if err := toml.NewEncoder(file).Encode(m); err != nil {
		file.Close()
		return fmt.Errorf("encode session file: %w", err)
	}
	return file.Close()
}

func (f *FileMarkerStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file %s: %w", f.path, err)
	}
	return nil
}

// MemoryMarkerStore keeps markers in memory only.
type MemoryMarkerStore struct {
	markers *Markers
}

func (s *MemoryMarkerStore) Load() (*Markers, error) {
	if s.markers == nil {
		return nil, nil
	}
	m := *s.markers
	return &m, nil
}

func (s *MemoryMarkerStore) Save(m Markers) error {
	s.markers = &m
	return nil
}

func (s *MemoryMarkerStore) Clear() error {
	s.markers = nil
	return nil
}
