package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Icon        string `help:"Emoji icon." default:""`
	Category    string `help:"Category." default:""`
	Energy      string `help:"Energy level: low, medium or high." enum:"low,medium,high" default:"medium"`
	Time        string `help:"Time of day (HH:MM)." default:""`
	Notes       string `help:"Free-form notes." default:""`
	Interactive bool   `short:"i" help:"Fill the habit in with a form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive || c.Name == "" {
		if err := c.form().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	for _, h := range ctx.Engine.Habits() {
		if strings.EqualFold(h.Name, strings.TrimSpace(c.Name)) {
			return fmt.Errorf("habit with name %q already exists", c.Name)
		}
	}

	habit, err := ctx.Engine.AddHabit(engine.HabitInput{
		Name:     c.Name,
		Icon:     c.Icon,
		Category: c.Category,
		Energy:   models.Energy(c.Energy),
		Time:     c.Time,
		Notes:    c.Notes,
	})
	if err != nil {
		return err
	}
	ctx.Commit()

	fmt.Fprintf(ctx.Out, "Added habit: %s %s (+%d XP per completion)\n", habit.Icon, habit.Name, habit.XPReward)
	return nil
}

// form collects the same fields as the flags
func (c *HabitAddCmd) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					_, err := validation.ValidateHabitName(s)
					return err
				}),
			huh.NewInput().
				Title("Icon").
				Placeholder("🎯").
				Value(&c.Icon),
			huh.NewInput().
				Title("Category").
				Placeholder("General").
				Value(&c.Category),
			huh.NewSelect[string]().
				Title("Energy").
				Options(huh.NewOptions("low", "medium", "high")...).
				Value(&c.Energy),
			huh.NewInput().
				Title("Time (HH:MM, optional)").
				Value(&c.Time).
				Validate(validation.ValidateTime),
		),
	)
}

type HabitListCmd struct {
	Category string `help:"Only show habits in this category."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits := ctx.Engine.Habits()
	if len(habits) == 0 {
		fmt.Fprintln(ctx.Out, "No habits found.")
		return nil
	}

	for _, h := range habits {
		if c.Category != "" && !strings.EqualFold(h.Category, c.Category) {
			continue
		}
		line := fmt.Sprintf("%s %-24s %-10s %-6s %2d XP  🔥%d", h.Icon, h.Name, h.Category, h.Energy, h.XPReward, ctx.Engine.HabitStreak(h.ID))
		if h.Time != "" {
			line += "  ⏰ " + h.Time
		}
		fmt.Fprintf(ctx.Out, "%s  [%s]\n", line, shortID(h.ID))
	}
	return nil
}

type HabitEditCmd struct {
	Habit    string  `arg:"" help:"Habit id or name."`
	Name     *string `help:"New name."`
	Icon     *string `help:"New icon."`
	Category *string `help:"New category."`
	Energy   *string `help:"New energy level: low, medium or high."`
	Time     *string `help:"New time of day (HH:MM, empty to clear)."`
	Notes    *string `help:"New notes."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	id, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	upd := engine.HabitUpdate{
		Name:     c.Name,
		Icon:     c.Icon,
		Category: c.Category,
		Time:     c.Time,
		Notes:    c.Notes,
	}
	if c.Energy != nil {
		energy := models.Energy(strings.ToLower(*c.Energy))
		upd.Energy = &energy
	}

	habit, err := ctx.Engine.UpdateHabit(id, upd)
	if err != nil {
		return err
	}
	ctx.Commit()

	fmt.Fprintf(ctx.Out, "Updated habit: %s %s\n", habit.Icon, habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	id, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	habit, _ := ctx.Engine.Habit(id)

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its whole history?", habit.Name)).
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Out, "Cancelled.")
			return nil
		}
	}

	if err := ctx.Engine.DeleteHabit(id); err != nil {
		return err
	}
	ctx.Commit()

	fmt.Fprintf(ctx.Out, "Deleted habit: %s\n", habit.Name)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
