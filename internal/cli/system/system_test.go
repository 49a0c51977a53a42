package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
)

func setupContext(t *testing.T, storagePath string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage = storagePath
	cfg.Timezone = "UTC"
	cfg.Notify = false

	store, err := cli.OpenStore(storagePath)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := cli.NewContext(cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Clock = func() time.Time { return time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC) }
	return ctx, out
}

func TestInitSetsDisplayName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx, out := setupContext(t, path)
	defer ctx.Store.Close()

	if err := (&InitCmd{Name: "Dina"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Initialized") {
		t.Errorf("output = %q", out.String())
	}
	snap, err := ctx.Store.Load(ctx.Config.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Profile.DisplayName != "Dina" {
		t.Errorf("display name = %q, want Dina", snap.Profile.DisplayName)
	}
}

func TestInitCopiesFromSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "old.json")
	src := storage.NewJSONStore(source)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}

	e := engine.New(storage.EmptySnapshot("Dina"))
	h, err := e.AddHabit(engine.HabitInput{Name: "Jogging"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.SetLogStatus(h.ID, e.Today(), models.StatusDone); err != nil {
		t.Fatal(err)
	}
	if err := src.Save(constants.DefaultUserID, e.Snapshot()); err != nil {
		t.Fatal(err)
	}

	ctx, out := setupContext(t, filepath.Join(dir, "new.db"))
	defer ctx.Store.Close()
	if err := (&InitCmd{Source: source}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Copied 1 habits") {
		t.Errorf("output = %q", out.String())
	}

	snap, err := ctx.Store.Load(constants.DefaultUserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Habits) != 1 || len(snap.Logs) != 1 || snap.Profile.XP != e.Profile().XP {
		t.Errorf("copied %d habits, %d logs, %d XP", len(snap.Habits), len(snap.Logs), snap.Profile.XP)
	}
}

func TestInitForceRejectsSameSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx, _ := setupContext(t, path)
	defer ctx.Store.Close()

	if err := (&InitCmd{Force: true, Source: path}).Run(ctx); err == nil {
		t.Error("--force with the destination as source was accepted")
	}
}

func TestCheckIntegrity(t *testing.T) {
	valid := models.Habit{ID: "11111111-1111-1111-1111-111111111111", Name: "Jogging", Energy: models.EnergyHigh, XPReward: models.EnergyHigh.XPReward()}

	tests := []struct {
		name    string
		snap    models.Snapshot
		wantErr string
	}{
		{
			name: "valid",
			snap: models.Snapshot{
				Habits: []models.Habit{valid},
				Logs:   []models.LogEntry{{HabitID: valid.ID, Date: "2026-10-16", Status: models.StatusDone}},
			},
		},
		{
			name:    "duplicate habit",
			snap:    models.Snapshot{Habits: []models.Habit{valid, valid}},
			wantErr: "duplicate habit",
		},
		{
			name: "wrong reward",
			snap: models.Snapshot{Habits: []models.Habit{{
				ID: valid.ID, Name: "Jogging", Energy: models.EnergyLow, XPReward: 99,
			}}},
			wantErr: "rewards 99 XP",
		},
		{
			name: "orphan log",
			snap: models.Snapshot{
				Habits: []models.Habit{valid},
				Logs:   []models.LogEntry{{HabitID: "22222222-2222-2222-2222-222222222222", Date: "2026-10-16", Status: models.StatusDone}},
			},
			wantErr: "missing habit",
		},
		{
			name: "duplicate log",
			snap: models.Snapshot{
				Habits: []models.Habit{valid},
				Logs: []models.LogEntry{
					{HabitID: valid.ID, Date: "2026-10-16", Status: models.StatusDone},
					{HabitID: valid.ID, Date: "2026-10-16", Status: models.StatusSkipped},
				},
			},
			wantErr: "duplicate log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkIntegrity(tt.snap)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("checkIntegrity() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("checkIntegrity() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDueReminders(t *testing.T) {
	ctx, _ := setupContext(t, filepath.Join(t.TempDir(), "state.json"))
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Open(); err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()

	e := ctx.Engine
	for _, in := range []engine.HabitInput{
		{Name: "Jogging", Time: "07:00"},
		{Name: "Stretching", Time: "07:00"},
		{Name: "Reading", Time: "21:00"},
	} {
		if _, err := e.AddHabit(in); err != nil {
			t.Fatal(err)
		}
	}
	done, _ := e.FindHabit("Stretching")
	if _, err := e.SetLogStatus(done.ID, e.Today(), models.StatusDone); err != nil {
		t.Fatal(err)
	}

	got := dueReminders(ctx, "07:00")
	if len(got) != 1 || !strings.Contains(got[0], "Jogging") {
		t.Errorf("dueReminders() = %v, want only Jogging", got)
	}

	if _, err := e.ToggleRestDay(e.Today()); err != nil {
		t.Fatal(err)
	}
	if got := dueReminders(ctx, "07:00"); len(got) != 0 {
		t.Errorf("rest day reminders = %v, want none", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("gsk_abcdefghijkl"); strings.Contains(got, "abcdefgh") {
		t.Errorf("maskSecret leaked the secret: %q", got)
	}
}

func TestInitForceBacksUpExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx, out := setupContext(t, path)
	defer ctx.Store.Close()

	if err := (&InitCmd{Name: "Dina"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&InitCmd{Force: true, Name: "Budi"}).Run(ctx); err != nil {
		t.Fatalf("Run(--force) error = %v", err)
	}
	if !strings.Contains(out.String(), "Backed up existing database") {
		t.Errorf("output = %q, want a backup notice", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("backup list = %q, want one backup", out.String())
	}
}

func TestBackupRejectsJSONStorage(t *testing.T) {
	ctx, _ := setupContext(t, filepath.Join(t.TempDir(), "state.json"))
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup of JSON storage accepted")
	}
}
