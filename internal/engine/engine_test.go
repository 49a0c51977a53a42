package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/utils"
	"github.com/habitflow/habitflow/internal/validation"
)

const testToday = "2026-10-16"

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T, habits ...models.Habit) *Engine {
	t.Helper()
	snap := models.Snapshot{Habits: habits, Profile: models.NewProfile("Tester")}
	return New(snap, WithClock(fixedClock), WithLocation(time.UTC))
}

func testHabit(id string, energy models.Energy) models.Habit {
	return models.Habit{ID: id, Name: "Habit " + id, Energy: energy, CreatedAt: fixedClock()}
}

// day returns the date offset days from today (negative is the past)
func day(t *testing.T, offset int) string {
	t.Helper()
	d, err := utils.AddDays(testToday, offset)
	if err != nil {
		t.Fatalf("failed to compute date: %v", err)
	}
	return d
}

func mark(t *testing.T, e *Engine, habitID string, offset int, status models.Status) {
	t.Helper()
	if _, err := e.SetLogStatus(habitID, day(t, offset), status); err != nil {
		t.Fatalf("failed to set status: %v", err)
	}
}

func TestSetLogStatusToggle(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyMedium))

	got, err := e.SetLogStatus("a", testToday, models.StatusDone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.StatusDone {
		t.Errorf("expected done, got %s", got)
	}
	if e.Profile().XP != 15 {
		t.Errorf("expected 15 XP, got %d", e.Profile().XP)
	}

	got, err = e.SetLogStatus("a", testToday, models.StatusDone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.StatusNone {
		t.Errorf("expected toggle back to none, got %s", got)
	}
	if e.Profile().XP != 15 {
		t.Errorf("XP must not be reclaimed, got %d", e.Profile().XP)
	}
	if e.Profile().TotalCompletions != 1 {
		t.Errorf("expected 1 completion, got %d", e.Profile().TotalCompletions)
	}

	t.Run("overwrite", func(t *testing.T) {
		mark(t, e, "a", 0, models.StatusSkipped)
		mark(t, e, "a", 0, models.StatusRest)
		if s := e.LogStatus("a", testToday); s != models.StatusRest {
			t.Errorf("expected rest, got %s", s)
		}
	})

	t.Run("explicit none clears", func(t *testing.T) {
		mark(t, e, "a", 0, models.StatusNone)
		if s := e.LogStatus("a", testToday); s != models.StatusNone {
			t.Errorf("expected none, got %s", s)
		}
		for _, entry := range e.Snapshot().Logs {
			if entry.Date == testToday {
				t.Errorf("cleared entry must not be stored: %+v", entry)
			}
		}
	})

	t.Run("redo pays again", func(t *testing.T) {
		mark(t, e, "a", 0, models.StatusDone)
		if e.Profile().XP != 30 {
			t.Errorf("expected 30 XP, got %d", e.Profile().XP)
		}
	})
}

func TestSetLogStatusValidation(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyHigh))

	tests := []struct {
		name    string
		habitID string
		date    string
		status  models.Status
	}{
		{"bad date", "a", "2026-13-40", models.StatusDone},
		{"missing year", "a", "10-16", models.StatusDone},
		{"unknown habit", "ghost", testToday, models.StatusDone},
		{"unknown status", "a", testToday, models.Status("maybe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.SetLogStatus(tt.habitID, tt.date, tt.status)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, validation.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if len(e.Snapshot().Logs) != 0 {
		t.Errorf("failed mutations must not touch the log")
	}
	if e.Profile().XP != 0 {
		t.Errorf("failed mutations must not grant XP")
	}
}

func TestHabitStreak(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[int]models.Status
		want     int
	}{
		{
			name:     "open today does not break",
			statuses: map[int]models.Status{-6: "done", -5: "done", -4: "done", -3: "done", -2: "done", -1: "done"},
			want:     6,
		},
		{
			name:     "gap before today breaks",
			statuses: map[int]models.Status{-6: "done", -5: "done", -4: "done", -2: "done", -1: "done"},
			want:     2,
		},
		{
			name:     "skipped preserves without counting",
			statuses: map[int]models.Status{-3: "done", -2: "skipped", -1: "done", 0: "skipped"},
			want:     2,
		},
		{
			name:     "rest preserves",
			statuses: map[int]models.Status{-2: "done", -1: "rest", 0: "done"},
			want:     2,
		},
		{
			name:     "today counts",
			statuses: map[int]models.Status{0: "done"},
			want:     1,
		},
		{
			name:     "empty",
			statuses: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, testHabit("a", models.EnergyLow))
			for offset, s := range tt.statuses {
				mark(t, e, "a", offset, s)
			}
			if got := e.HabitStreak("a"); got != tt.want {
				t.Errorf("expected streak %d, got %d", tt.want, got)
			}
		})
	}

	t.Run("unknown habit", func(t *testing.T) {
		e := newTestEngine(t)
		if got := e.HabitStreak("nope"); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

func TestRestDaysPreserveStreak(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyLow))
	mark(t, e, "a", -2, models.StatusDone)
	if _, err := e.ToggleRestDay(day(t, -1)); err != nil {
		t.Fatalf("failed to toggle rest day: %v", err)
	}
	mark(t, e, "a", 0, models.StatusDone)

	if got := e.HabitStreak("a"); got != 2 {
		t.Errorf("expected streak 2 across rest day, got %d", got)
	}

	t.Run("weekly rest day", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow))
		// 2026-10-15 is a Thursday
		thursday := time.Thursday
		if err := e.SetRestWeekday(&thursday); err != nil {
			t.Fatalf("failed to set weekday: %v", err)
		}
		mark(t, e, "a", -2, models.StatusDone)
		mark(t, e, "a", 0, models.StatusDone)
		if got := e.HabitStreak("a"); got != 2 {
			t.Errorf("expected streak 2 across weekly rest, got %d", got)
		}
	})
}

func TestGlobalStreak(t *testing.T) {
	t.Run("zero habits", func(t *testing.T) {
		e := newTestEngine(t)
		if got := e.GlobalStreak(); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("every habit must be covered", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow))
		mark(t, e, "a", -3, models.StatusDone)
		mark(t, e, "b", -3, models.StatusDone)
		mark(t, e, "a", -2, models.StatusDone)
		mark(t, e, "b", -2, models.StatusSkipped)
		mark(t, e, "a", -1, models.StatusRest)
		mark(t, e, "b", -1, models.StatusDone)
		mark(t, e, "a", 0, models.StatusDone)

		if got := e.GlobalStreak(); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("uncovered day breaks", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow))
		mark(t, e, "a", -2, models.StatusDone)
		mark(t, e, "b", -2, models.StatusDone)
		mark(t, e, "a", -1, models.StatusDone)
		if got := e.GlobalStreak(); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

func TestDisciplineScore(t *testing.T) {
	t.Run("zero habits", func(t *testing.T) {
		if got := newTestEngine(t).DisciplineScore(); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("full week", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow))
		for i := -6; i <= 0; i++ {
			mark(t, e, "a", i, models.StatusDone)
		}
		// base 80, bonus 2*7
		if got := e.DisciplineScore(); got != 94 {
			t.Errorf("expected 94, got %d", got)
		}
	})

	t.Run("capped at 100", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow))
		for i := -12; i <= 0; i++ {
			mark(t, e, "a", i, models.StatusDone)
		}
		if got := e.DisciplineScore(); got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})

	t.Run("skips do not count as done", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow))
		mark(t, e, "a", 0, models.StatusDone)
		mark(t, e, "b", 0, models.StatusSkipped)
		// base round(80*1/14)=6, global streak 1 -> bonus 2
		if got := e.DisciplineScore(); got != 8 {
			t.Errorf("expected 8, got %d", got)
		}
	})
}

func TestTodayCompletionPct(t *testing.T) {
	e := newTestEngine(t)
	if got := e.TodayCompletionPct(); got != 0 {
		t.Errorf("expected 0 with no habits, got %d", got)
	}

	e = newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow), testHabit("c", models.EnergyLow))
	mark(t, e, "a", 0, models.StatusDone)
	if got := e.TodayCompletionPct(); got != 33 {
		t.Errorf("expected 33, got %d", got)
	}
	mark(t, e, "b", 0, models.StatusDone)
	if got := e.TodayCompletionPct(); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestAddXPLevelUp(t *testing.T) {
	var events []Event
	snap := models.Snapshot{Profile: models.NewProfile("Tester")}
	snap.Profile.XP = 90
	e := New(snap, WithClock(fixedClock), WithListener(ListenerFunc(func(ev Event) {
		events = append(events, ev)
	})))

	if _, up := e.AddXP(5); up {
		t.Errorf("95 XP should still be level 1")
	}
	change, up := e.AddXP(10)
	if !up {
		t.Fatal("expected a level up at 105 XP")
	}
	if change.From.Level != 1 || change.To.Level != 2 {
		t.Errorf("expected 1 -> 2, got %d -> %d", change.From.Level, change.To.Level)
	}
	if len(events) != 1 || events[0].Kind != EventLevelUp || events[0].Level.Level != 2 {
		t.Errorf("expected one level up event, got %+v", events)
	}

	if _, up := e.AddXP(-50); up || e.Profile().XP != 105 {
		t.Errorf("negative XP must be ignored")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1}, {99, 1}, {100, 2}, {249, 2}, {250, 3}, {900, 5}, {2499, 6}, {2500, 7}, {100000, 7},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp).Level; got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}

	info := ProgressFor(175)
	if info.Current.Level != 2 || info.Next == nil || info.Next.Level != 3 {
		t.Fatalf("unexpected progress %+v", info)
	}
	if info.XPInLevel != 75 || info.XPForNext != 150 || info.Pct != 50 {
		t.Errorf("unexpected progress numbers %+v", info)
	}
	if top := ProgressFor(2600); top.Next != nil || top.Pct != 100 {
		t.Errorf("unexpected top level progress %+v", top)
	}
}

func TestBadges(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyLow))
	mark(t, e, "a", 0, models.StatusDone)

	if !e.HasBadge("first_habit") {
		t.Fatal("expected first_habit after one completion")
	}
	if !e.HasBadge("perfect_day") {
		t.Error("expected perfect_day with the only habit done")
	}

	mark(t, e, "a", 0, models.StatusDone) // toggle off
	if !e.HasBadge("first_habit") {
		t.Error("badges must never be revoked")
	}
	if got := e.EvaluateBadges(); len(got) != 0 {
		t.Errorf("already earned badges must not be reported again: %v", got)
	}

	t.Run("streak badges use best streak", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow))
		for i := -2; i <= 0; i++ {
			mark(t, e, "a", i, models.StatusDone)
		}
		mark(t, e, "a", -1, models.StatusDone) // toggle off, breaks the streak
		if got := e.HabitStreak("a"); got != 1 {
			t.Fatalf("expected current streak 1, got %d", got)
		}
		if !e.HasBadge("streak_3") {
			t.Errorf("expected streak_3 to stay earned")
		}
		if got := e.Profile().BestStreak; got != 3 {
			t.Errorf("expected best streak 3, got %d", got)
		}
	})

	t.Run("habit count", func(t *testing.T) {
		e := newTestEngine(t)
		for _, name := range []string{"Read", "Walk", "Stretch", "Journal", "Water"} {
			if _, err := e.AddHabit(HabitInput{Name: name}); err != nil {
				t.Fatalf("failed to add habit: %v", err)
			}
		}
		if !e.HasBadge("habits_5") {
			t.Error("expected habits_5")
		}
	})

	t.Run("focus sessions", func(t *testing.T) {
		e := newTestEngine(t)
		for i := 0; i < 5; i++ {
			e.CompleteFocusSession()
		}
		if !e.HasBadge("pomodoro_5") {
			t.Error("expected pomodoro_5")
		}
		if e.Profile().XP != 50 {
			t.Errorf("expected 50 XP, got %d", e.Profile().XP)
		}
	})
}

func TestStreakFreeze(t *testing.T) {
	var freezes int
	e := New(models.Snapshot{Habits: []models.Habit{testHabit("a", models.EnergyLow)}},
		WithClock(fixedClock), WithLocation(time.UTC),
		WithListener(ListenerFunc(func(ev Event) {
			if ev.Kind == EventFreezeEarned {
				freezes++
			}
		})))

	if e.UseStreakFreeze() {
		t.Fatal("expected no-op without tokens")
	}
	if e.Profile().FreezesUsed != 0 {
		t.Fatal("no-op must not count as used")
	}

	for i := -6; i <= 0; i++ {
		mark(t, e, "a", i, models.StatusDone)
	}
	if got := e.Profile().FreezeTokens; got != 1 {
		t.Fatalf("expected 1 freeze token at a 7 day streak, got %d", got)
	}
	if freezes != 1 {
		t.Errorf("expected one freeze event, got %d", freezes)
	}

	// toggling off and on again moves the streak back to 7
	mark(t, e, "a", 0, models.StatusDone)
	mark(t, e, "a", 0, models.StatusDone)
	if got := e.Profile().FreezeTokens; got != 2 {
		t.Errorf("expected a second token on re-reaching 7, got %d", got)
	}

	if !e.UseStreakFreeze() {
		t.Fatal("expected freeze to be used")
	}
	p := e.Profile()
	if p.FreezeTokens != 1 || p.FreezesUsed != 1 {
		t.Errorf("unexpected counters %d/%d", p.FreezeTokens, p.FreezesUsed)
	}
	if !e.HasBadge("freeze_used") {
		t.Error("expected freeze_used badge")
	}
}

func TestToggleRestDay(t *testing.T) {
	e := newTestEngine(t)

	on, err := e.ToggleRestDay(testToday)
	if err != nil || !on {
		t.Fatalf("expected rest day on, got %v %v", on, err)
	}
	on, _ = e.ToggleRestDay(testToday)
	if on {
		t.Fatal("expected rest day off")
	}
	e.ToggleRestDay(testToday)

	p := e.Profile()
	if p.RestDaysUsed != 2 {
		t.Errorf("expected lifetime count 2, got %d", p.RestDaysUsed)
	}
	if len(p.RestDays) != 1 {
		t.Errorf("expected one rest day in the set, got %v", p.RestDays)
	}
	if !e.HasBadge("rest_day") {
		t.Error("expected rest_day badge")
	}

	if _, err := e.ToggleRestDay("someday"); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPerfectDay(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow))
	mark(t, e, "a", 0, models.StatusDone)
	mark(t, e, "b", 0, models.StatusSkipped)
	if e.Profile().PerfectDays() != 0 {
		t.Fatal("a skipped habit does not make a perfect day")
	}
	mark(t, e, "b", 0, models.StatusDone)
	if e.Profile().PerfectDays() != 1 {
		t.Fatal("expected a perfect day")
	}

	mark(t, e, "b", 0, models.StatusDone)
	mark(t, e, "b", 0, models.StatusDone)
	if e.Profile().PerfectDays() != 1 {
		t.Error("the same date is only counted once")
	}

	t.Run("rest days excluded", func(t *testing.T) {
		e := newTestEngine(t, testHabit("a", models.EnergyLow))
		e.ToggleRestDay(testToday)
		mark(t, e, "a", 0, models.StatusDone)
		if e.Profile().PerfectDays() != 0 {
			t.Error("rest days are never perfect")
		}
	})
}

func TestHabitCRUD(t *testing.T) {
	e := newTestEngine(t)

	h, err := e.AddHabit(HabitInput{Name: "  Morning run  ", Energy: models.EnergyHigh, Time: "06:30"})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if h.Name != "Morning run" || h.XPReward != 25 || h.Icon == "" || h.ID == "" {
		t.Errorf("unexpected habit %+v", h)
	}
	if e.Profile().XP != 5 {
		t.Errorf("expected add habit bonus, got %d XP", e.Profile().XP)
	}

	if _, err := e.AddHabit(HabitInput{Name: "   "}); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
	if _, err := e.AddHabit(HabitInput{Name: "Nap", Time: "25:99"}); err == nil {
		t.Error("expected error for bad time")
	}

	low := models.EnergyLow
	name := "Evening run"
	updated, err := e.UpdateHabit(h.ID, HabitUpdate{Name: &name, Energy: &low})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.ID != h.ID || updated.Name != name || updated.XPReward != 10 || updated.Time != "06:30" {
		t.Errorf("unexpected update %+v", updated)
	}

	t.Run("find", func(t *testing.T) {
		if found, ok := e.FindHabit(h.ID); !ok || found.ID != h.ID {
			t.Error("expected lookup by id")
		}
		if found, ok := e.FindHabit("EVENING"); !ok || found.ID != h.ID {
			t.Error("expected case-insensitive lookup by name")
		}
		if _, ok := e.FindHabit("swim"); ok {
			t.Error("expected no match")
		}
		if _, ok := e.FindHabit(""); ok {
			t.Error("empty query must not match")
		}
	})

	mark(t, e, h.ID, 0, models.StatusDone)
	if err := e.DeleteHabit(h.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	snap := e.Snapshot()
	if len(snap.Habits) != 0 || len(snap.Logs) != 0 {
		t.Errorf("expected cascade delete, got %+v", snap)
	}
	if err := e.DeleteHabit(h.ID); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyMedium))
	mark(t, e, "a", -1, models.StatusDone)
	mark(t, e, "a", 0, models.StatusDone)
	e.ToggleRestDay(day(t, 3))
	if err := e.AddScheduleEntry(day(t, 1), "09:00 Dentist"); err != nil {
		t.Fatalf("failed to add schedule: %v", err)
	}

	snap := e.Snapshot()
	snap.Logs = append(snap.Logs,
		models.LogEntry{HabitID: "ghost", Date: testToday, Status: models.StatusDone},
		models.LogEntry{HabitID: "a", Date: day(t, -2), Status: models.Status("bogus")},
	)

	restored := New(snap, WithClock(fixedClock), WithLocation(time.UTC))
	if got := restored.HabitStreak("a"); got != 2 {
		t.Errorf("expected streak 2 after restore, got %d", got)
	}
	if got := len(restored.Snapshot().Logs); got != 2 {
		t.Errorf("expected invalid entries dropped, got %d logs", got)
	}
	if restored.Profile().XP != e.Profile().XP {
		t.Errorf("XP mismatch after restore")
	}
	if !restored.IsRestDay(day(t, 3)) {
		t.Error("expected rest day to survive restore")
	}
	if lines := restored.ScheduleFor(day(t, 1)); len(lines) != 1 || lines[0] != "09:00 Dentist" {
		t.Errorf("unexpected schedule %v", lines)
	}
}

func TestCostumes(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetActiveCostume(2); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("expected locked costume error, got %v", err)
	}
	e.AddXP(300)
	if err := e.SetActiveCostume(3); err != nil {
		t.Fatalf("expected unlocked costume, got %v", err)
	}
	if e.ActiveCostume().Level != 3 {
		t.Errorf("expected costume 3, got %d", e.ActiveCostume().Level)
	}
	if err := e.SetActiveCostume(99); err == nil {
		t.Error("expected error for unknown costume")
	}
}

func TestSchedule(t *testing.T) {
	e := newTestEngine(t)
	e.AddScheduleEntry(day(t, 2), "Gym")
	e.AddScheduleEntry(day(t, 2), "Groceries")
	e.AddScheduleEntry(day(t, -2), "Old")
	e.AddScheduleEntry(day(t, 1), "   ")

	days := e.Schedule()
	if len(days) != 1 {
		t.Fatalf("expected only upcoming non-empty days, got %+v", days)
	}
	if days[0].Date != day(t, 2) || len(days[0].Lines) != 2 {
		t.Errorf("unexpected agenda %+v", days[0])
	}
}

func TestWeekStats(t *testing.T) {
	e := newTestEngine(t, testHabit("a", models.EnergyLow), testHabit("b", models.EnergyLow))
	mark(t, e, "a", 0, models.StatusDone)

	dates := e.CurrentWeekDates()
	if len(dates) != 7 || dates[0] != "2026-10-12" || dates[6] != "2026-10-18" {
		t.Fatalf("unexpected week %v", dates)
	}
	stats := e.WeekStats(dates)
	if stats[4].Date != testToday || stats[4].Done != 1 || stats[4].Pct != 50 {
		t.Errorf("unexpected stats for today %+v", stats[4])
	}

	hs := e.HabitStats()
	if len(hs) != 2 || hs[0].CompletionPct != 14 || hs[0].Streak != 1 {
		t.Errorf("unexpected habit stats %+v", hs)
	}
}

func TestMissedHabits(t *testing.T) {
	old := fixedClock().AddDate(0, 0, -10)
	habit := func(id string) models.Habit {
		h := testHabit(id, models.EnergyLow)
		h.CreatedAt = old
		return h
	}
	fresh := testHabit("fresh", models.EnergyLow)
	fresh.CreatedAt = fixedClock().AddDate(0, 0, -2)

	e := newTestEngine(t, habit("idle"), habit("active"), habit("skipper"), habit("rested"), fresh)
	mark(t, e, "active", -2, models.StatusDone)
	for i := -3; i <= -1; i++ {
		mark(t, e, "skipper", i, models.StatusSkipped)
	}
	mark(t, e, "rested", -1, models.StatusRest)
	// done today does not clear a miss in the days before
	mark(t, e, "idle", 0, models.StatusDone)

	var got []string
	for _, h := range e.MissedHabits() {
		got = append(got, h.ID)
	}
	want := []string{"idle", "skipper"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if _, err := e.ToggleRestDay(day(t, -3)); err != nil {
		t.Fatal(err)
	}
	// an explicit skip still wins over the rest day
	missed := e.MissedHabits()
	if len(missed) != 1 || missed[0].ID != "skipper" {
		t.Errorf("expected only skipper after a rest day, got %v", missed)
	}
}
