package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/migration"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
	"github.com/habitflow/habitflow/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init creates the database file if needed and applies pending migrations
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return storage.Wrap("init", fmt.Errorf("failed to create config directory: %w", err))
	}

	if err := s.open(); err != nil {
		return storage.Wrap("init", err)
	}

	if err := s.runMigrations(); err != nil {
		return storage.Wrap("init", fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *Store) Load(userID string) (models.Snapshot, error) {
	if err := s.ensureOpen(); err != nil {
		return models.Snapshot{}, storage.Wrap("load", err)
	}
	snap, err := storage.LoadSnapshot(s.db, migration.SQLite, userID)
	return snap, storage.Wrap("load", err)
}

func (s *Store) Save(userID string, snap models.Snapshot) error {
	if err := s.ensureOpen(); err != nil {
		return storage.Wrap("save", err)
	}
	return storage.Wrap("save", storage.SaveSnapshot(s.db, migration.SQLite, userID, snap))
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, nil before Init or Load
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps the pragma below and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s.db = db
	return nil
}

// ensureOpen opens an existing database and checks its schema version
func (s *Store) ensureOpen() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *Store) migrationFS() (fs.FS, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return subFS, nil
}

func (s *Store) runMigrations() error {
	subFS, err := s.migrationFS()
	if err != nil {
		return err
	}
	runner := migration.NewRunner(s.db, subFS, migration.SQLite)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := s.migrationFS()
	if err != nil {
		return err
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite).ValidateVersion()
}
