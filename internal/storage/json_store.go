package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/habitflow/habitflow/internal/models"
)

const jsonStoreVersion = 1

type jsonFile struct {
	Version int                        `json:"version"`
	Users   map[string]models.Snapshot `json:"users"`
}

// JSONStore keeps every user's snapshot in a single JSON document
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return Wrap("init", fmt.Errorf("failed to create config directory: %w", err))
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return Wrap("init", s.write(&jsonFile{Version: jsonStoreVersion, Users: map[string]models.Snapshot{}}))
}

func (s *JSONStore) Load(userID string) (models.Snapshot, error) {
	f, err := s.read()
	if err != nil {
		return models.Snapshot{}, Wrap("load", err)
	}
	snap, ok := f.Users[userID]
	if !ok {
		return EmptySnapshot(""), nil
	}
	if snap.Profile.Notes == nil {
		snap.Profile.Notes = map[string]string{}
	}
	return snap, nil
}

func (s *JSONStore) Save(userID string, snap models.Snapshot) error {
	f, err := s.read()
	if err != nil {
		return Wrap("save", err)
	}
	f.Users[userID] = snap
	return Wrap("save", s.write(f))
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) read() (*jsonFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	f := &jsonFile{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if f.Users == nil {
		f.Users = map[string]models.Snapshot{}
	}
	return f, nil
}

// write replaces the file through a rename so a crash never leaves half a document
func (s *JSONStore) write(f *jsonFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
