package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/habitflow/habitflow/internal/storage"
	"github.com/habitflow/habitflow/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "habitflow.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestStoreNotInitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := s.Load("u1"); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitflow.db")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init: %v", err)
	}
	if err := s.Save("u1", storagetest.SampleSnapshot()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	reopened := NewStore(path)
	defer reopened.Close()
	got, err := reopened.Load("u1")
	if err != nil {
		t.Fatalf("failed to load after reopen: %v", err)
	}
	storagetest.AssertSnapshotEqual(t, storagetest.SampleSnapshot(), got)

	// a second Init on an existing database is a no-op migration run
	if err := reopened.Init(); err != nil {
		t.Fatalf("re-init failed: %v", err)
	}
}
