package progress

import (
	"fmt"
	"time"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/engine"
)

type StatsCmd struct {
	Week bool `help:"Use the current Monday to Sunday week instead of the last 7 days."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine

	fmt.Fprintf(ctx.Out, "🔥 Streak:            %d days (best %d)\n", e.GlobalStreak(), e.Profile().BestStreak)
	fmt.Fprintf(ctx.Out, "🎯 Discipline score:  %d/100\n", e.DisciplineScore())
	fmt.Fprintf(ctx.Out, "📈 Weekly completion: %d%%\n", e.WeeklyCompletionPct())
	fmt.Fprintf(ctx.Out, "✅ Today:             %d%%\n\n", e.TodayCompletionPct())

	dates := e.LastNDates(7)
	if c.Week {
		dates = e.CurrentWeekDates()
	}
	for _, d := range e.WeekStats(dates) {
		label := d.Date
		if t, err := time.Parse(constants.DateFormat, d.Date); err == nil {
			label = t.Format("Mon 01/02")
		}
		suffix := fmt.Sprintf("%d/%d", d.Done, d.Total)
		if d.Rest {
			suffix += " 😴"
		}
		fmt.Fprintf(ctx.Out, "%s  %s %3d%%  %s\n", label, cli.ProgressBar(d.Pct, 20), d.Pct, suffix)
	}

	stats := e.HabitStats()
	if len(stats) > 0 {
		fmt.Fprintln(ctx.Out)
		for _, s := range stats {
			fmt.Fprintf(ctx.Out, "%s %-24s %3d%% this week  🔥 %d\n", s.Icon, s.Name, s.CompletionPct, s.Streak)
		}
	}
	return nil
}

type ProfileCmd struct {
	Name string `help:"Change the display name." default:""`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine
	if c.Name != "" {
		e.SetDisplayName(c.Name)
		ctx.Commit()
	}

	p := e.Profile()
	info := engine.ProgressFor(p.XP)
	costume := e.ActiveCostume()

	name := p.DisplayName
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(ctx.Out, "%s %s\n", costume.Emoji, name)
	fmt.Fprintf(ctx.Out, "Level %d · %s\n", info.Current.Level, info.Current.Title)
	if info.Next != nil {
		fmt.Fprintf(ctx.Out, "%s %d/%d XP to %s\n", cli.ProgressBar(info.Pct, 20), info.XPInLevel, info.XPForNext, info.Next.Title)
	} else {
		fmt.Fprintf(ctx.Out, "%s max level (%d XP)\n", cli.ProgressBar(100, 20), p.XP)
	}
	fmt.Fprintf(ctx.Out, "Costume: %s %s\n", costume.Emoji, costume.Costume)
	fmt.Fprintf(ctx.Out, "🧊 Freeze tokens: %d   🏅 Badges: %d/%d   ⏱ Focus sessions: %d\n",
		p.FreezeTokens, len(p.EarnedBadges), len(engine.Badges), p.FocusSessions)
	fmt.Fprintf(ctx.Out, "💎 Perfect days: %d   ✅ Completions: %d\n", p.PerfectDays(), p.TotalCompletions)
	if p.RestWeekday != nil {
		fmt.Fprintf(ctx.Out, "😴 Weekly rest day: %s\n", p.RestWeekday.String())
	}
	return nil
}

type BadgesCmd struct{}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	for _, b := range engine.Badges {
		if ctx.Engine.HasBadge(b.ID) {
			fmt.Fprintf(ctx.Out, "%s  %-18s %s\n", b.Icon, b.Name, b.Description)
		} else {
			fmt.Fprintf(ctx.Out, "🔒  %-18s %s\n", b.Name, b.Description)
		}
	}
	return nil
}

type CostumeCmd struct {
	Level int `arg:"" optional:"" help:"Level whose costume to wear. Omit to list costumes."`
}

func (c *CostumeCmd) Run(ctx *cli.Context) error {
	e := ctx.Engine
	if c.Level == 0 {
		current := e.Level().Level
		active := e.ActiveCostume().Level
		for _, l := range engine.Levels {
			marker := "  "
			if l.Level == active {
				marker = "▶ "
			}
			if l.Level > current {
				fmt.Fprintf(ctx.Out, "%s🔒 %d %s (unlocks at %d XP)\n", marker, l.Level, l.Costume, l.XPRequired)
				continue
			}
			fmt.Fprintf(ctx.Out, "%s%s %d %s\n", marker, l.Emoji, l.Level, l.Costume)
		}
		return nil
	}

	if err := e.SetActiveCostume(c.Level); err != nil {
		return err
	}
	ctx.Commit()
	costume := e.ActiveCostume()
	fmt.Fprintf(ctx.Out, "Now wearing %s %s\n", costume.Emoji, costume.Costume)
	return nil
}
