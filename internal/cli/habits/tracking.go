package habits

import (
	"fmt"
	"strings"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/utils"
)

type MarkCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Status string `help:"Status to record: done, skipped, rest or none." enum:"done,skipped,rest,none" default:"done"`
	Date   string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

// Run records the status. Marking the status a habit already has clears it.
func (c *MarkCmd) Run(ctx *cli.Context) error {
	id, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	status, _ := models.ParseStatus(c.Status)

	habit, _ := ctx.Engine.Habit(id)
	result, err := ctx.Engine.SetLogStatus(id, day, status)
	if err != nil {
		return err
	}
	ctx.Commit()

	if result == models.StatusNone {
		fmt.Fprintf(ctx.Out, "Cleared %s %s for %s\n", habit.Icon, habit.Name, day)
		return nil
	}
	fmt.Fprintf(ctx.Out, "Marked %s %s as %s for %s (🔥 %d)\n", habit.Icon, habit.Name, result, day, ctx.Engine.HabitStreak(id))
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine
	today := e.Today()
	habits := e.Habits()

	if len(habits) == 0 {
		fmt.Fprintln(ctx.Out, "No habits found. Add one with 'habitflow habit add'.")
		return nil
	}

	header := "Habits for " + today
	if e.IsRestDay(today) {
		header += " (rest day 😴)"
	}
	fmt.Fprintf(ctx.Out, "%s:\n\n", header)

	for _, h := range habits {
		fmt.Fprintf(ctx.Out, "%s %s %s", statusMark(e.LogStatus(h.ID, today)), h.Icon, h.Name)
		if h.Time != "" {
			fmt.Fprintf(ctx.Out, "  ⏰ %s", h.Time)
		}
		fmt.Fprintln(ctx.Out)
	}

	pct := e.TodayCompletionPct()
	fmt.Fprintf(ctx.Out, "\n%s %d%%  🔥 %d day streak\n", cli.ProgressBar(pct, 20), pct, e.GlobalStreak())

	if missed := e.MissedHabits(); len(missed) > 0 {
		fmt.Fprintf(ctx.Out, "\n⚠️  Missed for %d days:\n", constants.MissedWindowDays)
		for _, h := range missed {
			fmt.Fprintf(ctx.Out, "  • %s %s\n", h.Icon, h.Name)
		}
	}

	if agenda := e.ScheduleFor(today); len(agenda) > 0 {
		fmt.Fprintln(ctx.Out, "\n📅 Agenda:")
		for _, line := range agenda {
			fmt.Fprintf(ctx.Out, "  • %s\n", line)
		}
	}
	return nil
}

type LogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	e := ctx.Engine
	habits := e.Habits()
	if c.Habit != "" {
		id, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		h, _ := e.Habit(id)
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		fmt.Fprintln(ctx.Out, "No habits found.")
		return nil
	}

	dates := utils.LastNDates(e.Today(), c.Days)
	const maxNameLen = 20

	fmt.Fprintf(ctx.Out, "Habit log (last %d days):\n\n", c.Days)
	fmt.Fprint(ctx.Out, strings.Repeat(" ", maxNameLen))
	for _, d := range dates {
		fmt.Fprintf(ctx.Out, " %5s", d[5:7]+"/"+d[8:10])
	}
	fmt.Fprintln(ctx.Out)
	fmt.Fprintln(ctx.Out, strings.Repeat("-", maxNameLen+6*len(dates)))

	for _, h := range habits {
		name := []rune(h.Name)
		if len(name) > maxNameLen {
			name = append(name[:maxNameLen-3], []rune("...")...)
		}
		fmt.Fprintf(ctx.Out, "%-*s", maxNameLen, string(name))
		for _, d := range dates {
			fmt.Fprintf(ctx.Out, "  %s   ", logGlyph(e.LogStatus(h.ID, d)))
		}
		fmt.Fprintln(ctx.Out)
	}
	fmt.Fprintln(ctx.Out, "\nx done  - skipped  z rest  . none")
	return nil
}

func statusMark(s models.Status) string {
	switch s {
	case models.StatusDone:
		return "[x]"
	case models.StatusSkipped:
		return "[-]"
	case models.StatusRest:
		return "[z]"
	}
	return "[ ]"
}

func logGlyph(s models.Status) string {
	switch s {
	case models.StatusDone:
		return "x"
	case models.StatusSkipped:
		return "-"
	case models.StatusRest:
		return "z"
	}
	return "."
}
