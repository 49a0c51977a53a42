package storage

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/habitflow/habitflow/internal/migration"
	"github.com/habitflow/habitflow/internal/models"
)

var errConnReset = errors.New("connection reset by peer")

// brokenDriver serves one row per query, then fails the iteration
type brokenDriver struct{}

func (brokenDriver) Open(string) (driver.Conn, error) { return brokenConn{}, nil }

type brokenConn struct{}

func (brokenConn) Prepare(query string) (driver.Stmt, error) {
	return brokenStmt{query: query}, nil
}

func (brokenConn) Close() error { return nil }

func (brokenConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

type brokenStmt struct{ query string }

func (brokenStmt) Close() error  { return nil }
func (brokenStmt) NumInput() int { return -1 }

func (brokenStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}

func (s brokenStmt) Query([]driver.Value) (driver.Rows, error) {
	cols := []string{"badge_id"}
	row := []driver.Value{"first_step"}
	switch {
	case strings.Contains(s.query, "profile_dates"):
		cols = []string{"kind", "date"}
		row = []driver.Value{dateKindRest, "2026-10-14"}
	case strings.Contains(s.query, "schedule_notes"):
		cols = []string{"date", "content"}
		row = []driver.Value{"2026-10-16", "Dentist"}
	}
	return &brokenRows{cols: cols, row: row}, nil
}

type brokenRows struct {
	cols []string
	row  []driver.Value
	sent bool
}

func (r *brokenRows) Columns() []string { return r.cols }

func (r *brokenRows) Close() error { return nil }

func (r *brokenRows) Next(dest []driver.Value) error {
	if r.sent {
		return errConnReset
	}
	r.sent = true
	copy(dest, r.row)
	return nil
}

func init() {
	sql.Register("habitflow-broken", brokenDriver{})
}

func TestLoadFailsOnInterruptedRows(t *testing.T) {
	db, err := sql.Open("habitflow-broken", "")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	tests := []struct {
		name string
		load func() error
	}{
		{"badges", func() error {
			_, err := loadBadges(db, migration.SQLite, "u")
			return err
		}},
		{"profile dates", func() error {
			p := models.NewProfile("")
			return loadProfileDates(db, migration.SQLite, "u", &p)
		}},
		{"schedule", func() error {
			return loadNotes(db, migration.SQLite, "u", map[string]string{})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.load()
			if !errors.Is(err, errConnReset) {
				t.Errorf("expected the iteration error, got %v", err)
			}
		})
	}
}
