package progress

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/tui/components/focus"
	"github.com/habitflow/habitflow/internal/validation"
)

type FreezeCmd struct{}

func (c *FreezeCmd) Run(ctx *cli.Context) error {
	if !ctx.Engine.UseStreakFreeze() {
		return fmt.Errorf("no streak freeze tokens left, earn one every %d day streak", constants.FreezeMilestone)
	}
	ctx.Commit()
	fmt.Fprintf(ctx.Out, "🧊 Streak freeze used. %d left.\n", ctx.Engine.Profile().FreezeTokens)
	return nil
}

type RestCmd struct {
	Date    string `help:"Date to toggle as a rest day (default: today)." default:""`
	Weekday string `help:"Set a recurring weekly rest day (name or 0-6), or 'none' to clear it."`
}

func (c *RestCmd) Run(ctx *cli.Context) error {
	if c.Weekday != "" {
		if strings.EqualFold(c.Weekday, "none") {
			if err := ctx.Engine.SetRestWeekday(nil); err != nil {
				return err
			}
			ctx.Commit()
			fmt.Fprintln(ctx.Out, "Weekly rest day cleared.")
			return nil
		}
		wd, err := cli.ParseWeekday(c.Weekday)
		if err != nil {
			return err
		}
		if err := ctx.Engine.SetRestWeekday(&wd); err != nil {
			return err
		}
		ctx.Commit()
		fmt.Fprintf(ctx.Out, "😴 Every %s is now a rest day.\n", wd)
		return nil
	}

	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	rest, err := ctx.Engine.ToggleRestDay(day)
	if err != nil {
		return err
	}
	ctx.Commit()
	if rest {
		fmt.Fprintf(ctx.Out, "😴 %s is a rest day. Streaks are safe.\n", day)
	} else {
		fmt.Fprintf(ctx.Out, "%s is no longer a rest day.\n", day)
	}
	return nil
}

type FocusCmd struct {
	Habit    string        `arg:"" optional:"" help:"Habit to focus on (id or name)."`
	Duration time.Duration `help:"Length of the work phase." default:"25m"`

	// extra program options, set by tests to run without a terminal
	programOptions []tea.ProgramOption
}

// focusRun drives one work phase and stops when it runs out or the user leaves
type focusRun struct {
	focus     focus.Model
	start     tea.Cmd
	completed bool
}

func (m focusRun) Init() tea.Cmd {
	return m.start
}

func (m focusRun) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case focus.CompletedMsg:
		m.completed = true
		return m, tea.Quit
	case focus.CloseMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.focus, cmd = m.focus.Update(msg)
	return m, cmd
}

func (m focusRun) View() string {
	if m.completed {
		return ""
	}
	return m.focus.View() + "\n\nspace pause · esc give up\n"
}

// Run counts down one work phase. The session and its XP are recorded only
// when the countdown reaches zero.
func (c *FocusCmd) Run(ctx *cli.Context) error {
	if c.Duration <= 0 {
		return validation.Invalid("duration", c.Duration.String(), "must be positive")
	}
	var id, name string
	if c.Habit != "" {
		h, ok := ctx.Engine.FindHabit(c.Habit)
		if !ok {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
		id, name = h.ID, h.Icon+" "+h.Name
	}

	d := focus.DefaultDurations()
	d.Work = c.Duration
	opts := append([]tea.ProgramOption{tea.WithOutput(ctx.Out)}, c.programOptions...)
	f := focus.New(id, name, d)
	start := f.Start()
	final, err := tea.NewProgram(focusRun{focus: f, start: start}, opts...).Run()
	if err != nil {
		return err
	}
	if run, ok := final.(focusRun); !ok || !run.completed {
		fmt.Fprintln(ctx.Out, "Focus session abandoned, nothing recorded.")
		return nil
	}

	ctx.Engine.CompleteFocusSession()
	ctx.Commit()
	fmt.Fprintf(ctx.Out, "⏱ Focus session recorded (+%d XP). Total: %d\n", constants.XPFocusSession, ctx.Engine.Profile().FocusSessions)
	return nil
}

type ScheduleCmd struct {
	Date string `help:"Show or add to this date (YYYY-MM-DD, default: all upcoming)." default:""`
	Add  string `help:"Agenda line to add to --date (default: today)."`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine
	if c.Add != "" {
		day, err := ctx.ResolveDate(c.Date)
		if err != nil {
			return err
		}
		if err := e.AddScheduleEntry(day, c.Add); err != nil {
			return err
		}
		ctx.Commit()
		fmt.Fprintf(ctx.Out, "📅 %s: %s\n", day, strings.TrimSpace(c.Add))
		return nil
	}

	if c.Date != "" {
		day, err := ctx.ResolveDate(c.Date)
		if err != nil {
			return err
		}
		lines := e.ScheduleFor(day)
		if len(lines) == 0 {
			fmt.Fprintf(ctx.Out, "Nothing scheduled for %s.\n", day)
			return nil
		}
		fmt.Fprintf(ctx.Out, "📅 %s\n", day)
		for _, l := range lines {
			fmt.Fprintf(ctx.Out, "  • %s\n", l)
		}
		return nil
	}

	days := e.Schedule()
	if len(days) == 0 {
		fmt.Fprintln(ctx.Out, "Nothing scheduled.")
		return nil
	}
	for _, d := range days {
		fmt.Fprintf(ctx.Out, "📅 %s\n", d.Date)
		for _, l := range d.Lines {
			fmt.Fprintf(ctx.Out, "  • %s\n", l)
		}
	}
	return nil
}
