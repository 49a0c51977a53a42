package habits

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/storage"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	return setupContextAt(t, func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) })
}

func setupContextAt(t *testing.T, clock func() time.Time) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage = filepath.Join(dir, "state.json")
	cfg.Timezone = "UTC"
	cfg.Notify = false

	store := storage.NewJSONStore(cfg.Storage)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx, err := cli.NewContext(cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Clock = clock
	if err := ctx.Open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx, out
}

func TestHabitAdd(t *testing.T) {
	ctx, out := setupContext(t)

	cmd := &HabitAddCmd{Name: "Jogging", Energy: "high", Time: "06:30"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "+25 XP") {
		t.Errorf("output = %q, want the high energy reward", out.String())
	}

	dup := &HabitAddCmd{Name: "jogging", Energy: "low"}
	if err := dup.Run(ctx); err == nil {
		t.Error("duplicate name accepted")
	}

	bad := &HabitAddCmd{Name: "Reading", Energy: "medium", Time: "25:00"}
	if err := bad.Run(ctx); err == nil {
		t.Error("invalid time accepted")
	}
	if n := len(ctx.Engine.Habits()); n != 1 {
		t.Errorf("habits = %d, want 1", n)
	}
}

func TestMarkToggles(t *testing.T) {
	ctx, out := setupContext(t)
	if err := (&HabitAddCmd{Name: "Jogging", Energy: "medium"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	mark := &MarkCmd{Habit: "jog", Status: "done"}
	if err := mark.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	h := ctx.Engine.Habits()[0]
	if got := ctx.Engine.LogStatus(h.ID, "2026-10-16"); got != models.StatusDone {
		t.Fatalf("status = %q, want done", got)
	}

	out.Reset()
	if err := mark.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared") {
		t.Errorf("output = %q, want Cleared", out.String())
	}

	yesterday := &MarkCmd{Habit: "Jogging", Status: "skipped", Date: "yesterday"}
	if err := yesterday.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Engine.LogStatus(h.ID, "2026-10-15"); got != models.StatusSkipped {
		t.Errorf("yesterday = %q, want skipped", got)
	}

	if err := (&MarkCmd{Habit: "swimming", Status: "done"}).Run(ctx); err == nil {
		t.Error("unknown habit accepted")
	}
}

func TestTodayAndLog(t *testing.T) {
	ctx, out := setupContext(t)

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("empty today = %q", out.String())
	}

	for _, name := range []string{"Jogging", "Reading"} {
		if err := (&HabitAddCmd{Name: name, Energy: "medium"}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := (&MarkCmd{Habit: "Jogging", Status: "done"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "50%") {
		t.Errorf("today = %q, want 50%%", out.String())
	}

	out.Reset()
	if err := (&LogCmd{Days: 3}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	var jogging string
	for _, l := range lines {
		if strings.HasPrefix(l, "Jogging") {
			jogging = l
		}
	}
	if !strings.Contains(jogging, "x") {
		t.Errorf("log row = %q, want a done glyph", jogging)
	}

	if err := (&LogCmd{Days: 0}).Run(ctx); err == nil {
		t.Error("zero days accepted")
	}
}

func TestTodayShowsMissedHabits(t *testing.T) {
	now := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)
	ctx, out := setupContextAt(t, func() time.Time { return now })

	for _, name := range []string{"Jogging", "Reading"} {
		if err := (&HabitAddCmd{Name: name, Energy: "low"}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	if err := (&MarkCmd{Habit: "Reading", Status: "done", Date: "2026-10-14"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	i := strings.Index(got, "Missed for 3 days")
	if i < 0 {
		t.Fatalf("today = %q, want a missed section", got)
	}
	missed := got[i:]
	if !strings.Contains(missed, "Jogging") || strings.Contains(missed, "Reading") {
		t.Errorf("missed section = %q, want only Jogging", missed)
	}
}
