package dispatch

import (
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/directive"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/models"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	return engine.New(models.Snapshot{Profile: models.NewProfile("Test")}, engine.WithClock(func() time.Time { return now }))
}

func TestApplySchedule(t *testing.T) {
	e := newEngine(t)
	report := New(e).Apply(directive.Extract("Noted!\n[SET_SCHEDULE:2026-03-03] Bukber\n[SET_SCHEDULE:2026-03-04]"))

	if len(report.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(report.Actions))
	}
	if report.Actions[0].Outcome != Applied || report.Actions[1].Outcome != Skipped {
		t.Errorf("outcomes = %v, %v", report.Actions[0].Outcome, report.Actions[1].Outcome)
	}
	if got := e.ScheduleFor("2026-03-03"); len(got) != 1 || got[0] != "Bukber" {
		t.Errorf("ScheduleFor() = %v, want [Bukber]", got)
	}
	if got := e.ScheduleFor("2026-03-04"); len(got) != 0 {
		t.Errorf("empty agenda should not be stored, got %v", got)
	}
	if !report.Changed() {
		t.Error("Changed() = false, want true")
	}
}

func TestApplyAddHabit(t *testing.T) {
	e := newEngine(t)
	report := New(e).Apply(directive.Extract("[ADD_HABIT:Meditasi:HIGH:06:30]\n[ADD_HABIT:Jalan:low:25:99]"))

	habits := e.Habits()
	if len(habits) != 2 {
		t.Fatalf("got %d habits, want 2", len(habits))
	}
	m := habits[0]
	if m.Name != "Meditasi" || m.Energy != models.EnergyHigh || m.XPReward != constants.XPRewardHigh || m.Time != "06:30" {
		t.Errorf("habit = %+v", m)
	}
	if m.Notes != constants.CoachHabitNote {
		t.Errorf("Notes = %q, want %q", m.Notes, constants.CoachHabitNote)
	}
	if habits[1].Time != "" {
		t.Errorf("invalid time should be dropped, got %q", habits[1].Time)
	}
	if habits[1].Energy != models.EnergyLow {
		t.Errorf("Energy = %q, want low", habits[1].Energy)
	}
	for _, a := range report.Actions {
		if a.Outcome != Applied {
			t.Errorf("action %v outcome = %v", a.Directive, a.Outcome)
		}
	}

	t.Run("unknown priority defaults to medium", func(t *testing.T) {
		New(e).Apply(directive.Extract("[ADD_HABIT:Stretch:urgent]"))
		h, ok := e.FindHabit("Stretch")
		if !ok || h.Energy != models.EnergyMedium {
			t.Errorf("habit = %+v, found %v", h, ok)
		}
	})

	t.Run("duplicate name skipped", func(t *testing.T) {
		before := len(e.Habits())
		report := New(e).Apply(directive.Extract("[ADD_HABIT:meditasi:low]"))
		if len(e.Habits()) != before {
			t.Error("duplicate habit was added")
		}
		if report.Actions[0].Outcome != Skipped {
			t.Errorf("outcome = %v, want skipped", report.Actions[0].Outcome)
		}
	})
}

func TestApplyComplete(t *testing.T) {
	e := newEngine(t)
	read, _ := e.AddHabit(engine.HabitInput{Name: "Read book", Energy: models.EnergyHigh})
	run, _ := e.AddHabit(engine.HabitInput{Name: "Run"})
	xp := e.Profile().XP

	report := New(e).Apply(directive.Extract("Mantap!\n[COMPLETE_HABIT:read]\n[COMPLETE_HABIT:" + run.ID + "]\n[COMPLETE_HABIT:Swim]"))

	if len(report.Actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(report.Actions))
	}
	if e.LogStatus(read.ID, e.Today()) != models.StatusDone || e.LogStatus(run.ID, e.Today()) != models.StatusDone {
		t.Error("both habits should be done today")
	}
	if got, want := e.Profile().XP, xp+read.XPReward+run.XPReward; got != want {
		t.Errorf("XP = %d, want %d", got, want)
	}
	if report.Actions[2].Outcome != Failed || report.Actions[2].Err == nil {
		t.Errorf("unknown habit action = %+v", report.Actions[2])
	}
	if len(report.Summary()) != 3 {
		t.Errorf("Summary() = %v", report.Summary())
	}

	t.Run("already done is not toggled off", func(t *testing.T) {
		report := New(e).Apply(directive.Extract("[COMPLETE_HABIT:Run]"))
		if report.Actions[0].Outcome != Skipped {
			t.Errorf("outcome = %v, want skipped", report.Actions[0].Outcome)
		}
		if e.LogStatus(run.ID, e.Today()) != models.StatusDone {
			t.Error("habit was toggled off")
		}
	})
}

func TestApplyNothing(t *testing.T) {
	report := New(newEngine(t)).Apply(directive.Extract("Just chatting"))
	if len(report.Actions) != 0 || report.Changed() {
		t.Errorf("report = %+v", report)
	}
}
