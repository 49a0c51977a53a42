// Package storagetest holds the behaviour every storage.Provider must share
package storagetest

import (
	"reflect"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
)

// SampleSnapshot returns a snapshot touching every persisted field
func SampleSnapshot() models.Snapshot {
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	saturday := time.Saturday

	profile := models.NewProfile("Rina")
	profile.XP = 340
	profile.FreezeTokens = 1
	profile.EarnedBadges = []string{"first_habit", "streak_3", "perfect_day"}
	profile.RestDays = []string{"2026-10-04", "2026-10-11"}
	profile.RestWeekday = &saturday
	profile.RestDaysUsed = 3
	profile.FreezesUsed = 1
	profile.FocusSessions = 4
	profile.PerfectDates = []string{"2026-10-14"}
	profile.TotalCompletions = 21
	profile.BestStreak = 9
	profile.ActiveCostume = 2
	profile.Notes = map[string]string{"2026-10-20": "09:00 Dentist\nBukber"}

	return models.Snapshot{
		Habits: []models.Habit{
			{ID: "h-run", Name: "Lari Pagi", Icon: "🏃", Category: "Health", Energy: models.EnergyHigh, Time: "06:00", XPReward: 25, CreatedAt: created},
			{ID: "h-read", Name: "Read", Icon: "📚", Category: "Mind", Energy: models.EnergyLow, XPReward: 10, Notes: "20 pages", CreatedAt: created},
		},
		Logs: []models.LogEntry{
			{HabitID: "h-run", Date: "2026-10-14", Status: models.StatusDone},
			{HabitID: "h-run", Date: "2026-10-15", Status: models.StatusSkipped},
			{HabitID: "h-read", Date: "2026-10-14", Status: models.StatusDone},
			{HabitID: "h-read", Date: "2026-10-15", Status: models.StatusRest},
		},
		Profile: profile,
	}
}

// Run exercises the Provider contract against a freshly initialised store
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Run("unknown user loads empty", func(t *testing.T) {
		p := newProvider(t)
		snap, err := p.Load("nobody")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if len(snap.Habits) != 0 || len(snap.Logs) != 0 || snap.Profile.XP != 0 {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
		if snap.Profile.ActiveCostume != 1 {
			t.Errorf("expected default costume, got %d", snap.Profile.ActiveCostume)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		p := newProvider(t)
		want := SampleSnapshot()
		if err := p.Save("u1", want); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := p.Load("u1")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		AssertSnapshotEqual(t, want, got)
	})

	t.Run("save is idempotent", func(t *testing.T) {
		p := newProvider(t)
		want := SampleSnapshot()
		for i := 0; i < 2; i++ {
			if err := p.Save("u1", want); err != nil {
				t.Fatalf("save %d failed: %v", i, err)
			}
		}
		got, err := p.Load("u1")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		AssertSnapshotEqual(t, want, got)
	})

	t.Run("save replaces state", func(t *testing.T) {
		p := newProvider(t)
		if err := p.Save("u1", SampleSnapshot()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		smaller := SampleSnapshot()
		smaller.Habits = smaller.Habits[:1]
		smaller.Logs = smaller.Logs[:2]
		smaller.Profile.RestWeekday = nil
		smaller.Profile.Notes = map[string]string{}
		if err := p.Save("u1", smaller); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := p.Load("u1")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		AssertSnapshotEqual(t, smaller, got)
	})

	t.Run("users are isolated", func(t *testing.T) {
		p := newProvider(t)
		if err := p.Save("u1", SampleSnapshot()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		other := storage.EmptySnapshot("Budi")
		if err := p.Save("u2", other); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := p.Load("u1")
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		AssertSnapshotEqual(t, SampleSnapshot(), got)
	})
}

// AssertSnapshotEqual compares snapshots field by field, ignoring nil versus
// empty collections and time zone representation.
func AssertSnapshotEqual(t *testing.T, want, got models.Snapshot) {
	t.Helper()

	if len(got.Habits) != len(want.Habits) {
		t.Fatalf("expected %d habits, got %d", len(want.Habits), len(got.Habits))
	}
	for i := range want.Habits {
		w, g := want.Habits[i], got.Habits[i]
		if !w.CreatedAt.Equal(g.CreatedAt) {
			t.Errorf("habit %s: created_at %v != %v", w.ID, w.CreatedAt, g.CreatedAt)
		}
		w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
		if w != g {
			t.Errorf("habit %d: expected %+v, got %+v", i, w, g)
		}
	}

	if !sameSlice(want.Logs, got.Logs) {
		t.Errorf("logs: expected %+v, got %+v", want.Logs, got.Logs)
	}

	wp, gp := want.Profile, got.Profile
	if !sameSlice(wp.EarnedBadges, gp.EarnedBadges) {
		t.Errorf("badges: expected %v, got %v", wp.EarnedBadges, gp.EarnedBadges)
	}
	if !sameSlice(wp.RestDays, gp.RestDays) {
		t.Errorf("rest days: expected %v, got %v", wp.RestDays, gp.RestDays)
	}
	if !sameSlice(wp.PerfectDates, gp.PerfectDates) {
		t.Errorf("perfect dates: expected %v, got %v", wp.PerfectDates, gp.PerfectDates)
	}
	if len(wp.Notes) != len(gp.Notes) || (len(wp.Notes) > 0 && !reflect.DeepEqual(wp.Notes, gp.Notes)) {
		t.Errorf("notes: expected %v, got %v", wp.Notes, gp.Notes)
	}
	if (wp.RestWeekday == nil) != (gp.RestWeekday == nil) || (wp.RestWeekday != nil && *wp.RestWeekday != *gp.RestWeekday) {
		t.Errorf("rest weekday: expected %v, got %v", wp.RestWeekday, gp.RestWeekday)
	}

	counters := [][3]interface{}{
		{"xp", wp.XP, gp.XP},
		{"freeze tokens", wp.FreezeTokens, gp.FreezeTokens},
		{"rest days used", wp.RestDaysUsed, gp.RestDaysUsed},
		{"freezes used", wp.FreezesUsed, gp.FreezesUsed},
		{"focus sessions", wp.FocusSessions, gp.FocusSessions},
		{"completions", wp.TotalCompletions, gp.TotalCompletions},
		{"best streak", wp.BestStreak, gp.BestStreak},
		{"costume", wp.ActiveCostume, gp.ActiveCostume},
		{"display name", wp.DisplayName, gp.DisplayName},
	}
	for _, c := range counters {
		if c[1] != c[2] {
			t.Errorf("%s: expected %v, got %v", c[0], c[1], c[2])
		}
	}
}

func sameSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
