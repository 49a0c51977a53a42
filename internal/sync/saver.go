// Package sync persists engine snapshots in the background. Rapid mutations
// coalesce into a single write of the latest full state.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
)

// Saver debounces writes to a storage.Provider. Touch is called from the
// event loop with a snapshot taken there, so the engine itself is never read
// from the timer goroutine.
type Saver struct {
	store  storage.Provider
	userID string
	delay  time.Duration

	mu      gosync.Mutex
	timer   *time.Timer
	pending *models.Snapshot
	lastErr error

	writeMu gosync.Mutex
}

func NewSaver(store storage.Provider, userID string, delay time.Duration) *Saver {
	return &Saver{
		store:  store,
		userID: userID,
		delay:  delay,
	}
}

// Touch records snap as the state to persist and restarts the debounce window
func (s *Saver) Touch(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &snap
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.flush)
		return
	}
	s.timer.Reset(s.delay)
}

// Pending reports whether a snapshot is waiting to be written
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// LastError returns the error of the most recent write, nil after a success
func (s *Saver) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Flush writes any pending snapshot now. It gives up waiting when ctx is done;
// the write itself still completes in the background.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.flush()
		close(done)
	}()

	select {
	case <-done:
		return s.LastError()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending state. The store itself is closed by its owner.
func (s *Saver) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func (s *Saver) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}

	err := s.store.Save(s.userID, *snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		logger.Warn("Failed to save state", "user", s.userID, "error", err)
		// keep it for the next Touch or Flush unless newer state arrived
		if s.pending == nil {
			s.pending = snap
		}
		return
	}
	logger.Debug("State saved", "user", s.userID, "habits", len(snap.Habits), "logs", len(snap.Logs))
}
