package system

import (
	"fmt"
	"time"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/notifier"
)

// NotifyCmd is meant to run every minute from cron or a systemd timer. It
// reminds about habits whose time of day is now and that are still open.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if !ctx.Config.Notify {
		if c.DryRun {
			fmt.Fprintln(ctx.Out, "Notifications are disabled in config.")
		}
		return nil
	}

	now := time.Now().In(ctx.Location())
	messages := dueReminders(ctx, now.Format(constants.TimeFormat))
	if len(messages) == 0 {
		if c.DryRun {
			fmt.Fprintln(ctx.Out, "Nothing due right now.")
		}
		return nil
	}

	n := notifier.New()
	for _, msg := range messages {
		if c.DryRun {
			fmt.Fprintln(ctx.Out, "[DryRun] "+msg)
			continue
		}
		if err := n.Notify(msg); err != nil {
			fmt.Fprintf(ctx.Out, "Failed to send notification: %v\n", err)
		}
	}
	return nil
}

// dueReminders lists the open habits scheduled at clock (HH:MM)
func dueReminders(ctx *cli.Context, clock string) []string {
	e := ctx.Engine
	today := e.Today()
	if e.IsRestDay(today) {
		return nil
	}

	var out []string
	for _, h := range e.Habits() {
		if h.Time != clock || e.LogStatus(h.ID, today) != models.StatusNone {
			continue
		}
		msg := fmt.Sprintf("⏰ Time for %s %s", h.Icon, h.Name)
		if streak := e.HabitStreak(h.ID); streak > 0 {
			msg += fmt.Sprintf(" (🔥 %d day streak)", streak)
		}
		out = append(out, msg)
	}
	return out
}
