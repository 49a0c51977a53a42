// Package storage persists full-state snapshots of a user's habits, logs and
// progress profile. Saves replace the stored state wholesale, so repeating a
// save with the same snapshot is harmless.
package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/habitflow/habitflow/internal/models"
)

type Provider interface {
	// Init prepares the backing store (directories, schema migrations)
	Init() error
	// Load returns the stored state of a user. An unknown user yields an
	// empty snapshot, not an error.
	Load(userID string) (models.Snapshot, error)
	// Save replaces the stored state of a user
	Save(userID string, snap models.Snapshot) error
	Close() error

	GetConfigPath() string
}

var (
	// ErrStorage is matched by every *Error
	ErrStorage = errors.New("storage error")
	// ErrNotInitialized is returned when Load or Save runs before Init
	ErrNotInitialized = errors.New("storage not initialized, run 'habitflow init' first")
)

// Error wraps a failed persistence operation. It is never fatal to a running
// session: in-memory state stays authoritative and the next save retries.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrStorage
}

// Wrap returns nil for a nil err and a *Error otherwise
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// IsPostgres reports whether target is a PostgreSQL connection string
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// IsJSON reports whether target names a JSON file store
func IsJSON(target string) bool {
	return strings.HasSuffix(strings.ToLower(target), ".json")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

// EmptySnapshot is the state of a user that has never been saved
func EmptySnapshot(displayName string) models.Snapshot {
	return models.Snapshot{
		Habits:  []models.Habit{},
		Logs:    []models.LogEntry{},
		Profile: models.NewProfile(displayName),
	}
}
