package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
)

type fakeStore struct {
	mu    gosync.Mutex
	saves []models.Snapshot
	err   error
}

func (f *fakeStore) Init() error { return nil }

func (f *fakeStore) Load(string) (models.Snapshot, error) {
	return storage.EmptySnapshot(""), nil
}

func (f *fakeStore) Save(_ string, snap models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves = append(f.saves, snap)
	return nil
}

func (f *fakeStore) Close() error          { return nil }
func (f *fakeStore) GetConfigPath() string { return "fake" }

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func snapWithXP(xp int) models.Snapshot {
	snap := storage.EmptySnapshot("")
	snap.Profile.XP = xp
	return snap
}

func TestSaverCoalesces(t *testing.T) {
	store := &fakeStore{}
	s := NewSaver(store, "u1", 50*time.Millisecond)

	for i := 1; i <= 5; i++ {
		s.Touch(snapWithXP(i))
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.count() != 1 {
		t.Fatalf("expected a single coalesced save, got %d", store.count())
	}
	if xp := store.saves[0].Profile.XP; xp != 5 {
		t.Errorf("expected the latest snapshot to be written, got xp %d", xp)
	}
	if s.Pending() {
		t.Error("nothing should be pending after the write")
	}
}

func TestSaverFlushOnClose(t *testing.T) {
	store := &fakeStore{}
	s := NewSaver(store, "u1", time.Hour)
	s.Touch(snapWithXP(7))

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if store.count() != 1 {
		t.Fatalf("expected close to flush, got %d saves", store.count())
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if store.count() != 1 {
		t.Errorf("nothing pending, expected no extra save, got %d", store.count())
	}
}

func TestSaverRetriesAfterError(t *testing.T) {
	store := &fakeStore{}
	store.setErr(errors.New("database is locked"))
	s := NewSaver(store, "u1", time.Hour)
	s.Touch(snapWithXP(3))

	err := s.Flush(context.Background())
	if err == nil {
		t.Fatal("expected the storage error to be reported")
	}
	if !s.Pending() {
		t.Fatal("failed snapshot must stay pending")
	}

	store.setErr(nil)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if store.count() != 1 || store.saves[0].Profile.XP != 3 {
		t.Errorf("expected retried snapshot to be saved, got %+v", store.saves)
	}
}

func TestSaverFlushHonoursContext(t *testing.T) {
	store := &fakeStore{}
	s := NewSaver(store, "u1", time.Hour)
	s.writeMu.Lock() // simulate a write in progress

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.Touch(snapWithXP(1))
	if err := s.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	s.writeMu.Unlock()
}
