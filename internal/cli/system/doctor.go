package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/habitflow/habitflow/internal/cli"
	"github.com/habitflow/habitflow/internal/keyring"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/notifier"
	"github.com/habitflow/habitflow/internal/utils"
	"github.com/habitflow/habitflow/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	warnOnly bool
	run      func() error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	var snap models.Snapshot
	loadErr := func() error {
		var err error
		snap, err = ctx.Store.Load(ctx.Config.UserID)
		return err
	}()

	checks := []check{
		{name: "Storage reachable", run: func() error { return loadErr }},
		{name: "Data integrity", run: func() error {
			if loadErr != nil {
				return errSkipped
			}
			return checkIntegrity(snap)
		}},
		{name: "Clock/timezone", run: func() error { return checkClockTimezone(ctx.Config.Timezone) }},
		{name: "OS keyring", warnOnly: true, run: func() error {
			if !keyring.IsAvailable() {
				return keyring.ErrKeyringUnavailable
			}
			return nil
		}},
		{name: "Coach API key", warnOnly: true, run: func() error {
			_, err := ctx.Coach()
			return err
		}},
		{name: "Tray notifications", warnOnly: true, run: func() error {
			if !ctx.Config.Notify {
				return errSkipped
			}
			return notifier.New().Notify("habitflow doctor: notifications work")
		}},
	}

	hasError := false
	for _, c := range checks {
		err := c.run()
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED\n", c.name)
		case c.warnOnly:
			fmt.Fprintf(ctx.Out, "⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	fmt.Fprintln(ctx.Out)
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Fprintln(ctx.Out, "All checks passed.")
	return nil
}

var errSkipped = errors.New("skipped")

// checkIntegrity verifies that every stored reference resolves and every
// stored value is well formed.
func checkIntegrity(snap models.Snapshot) error {
	ids := make(map[string]bool, len(snap.Habits))
	for _, h := range snap.Habits {
		if err := validation.ValidateID(h.ID); err != nil {
			return err
		}
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		ids[h.ID] = true
		if !h.Energy.IsValid() {
			return fmt.Errorf("habit %q has invalid energy %q", h.Name, h.Energy)
		}
		if h.XPReward != h.Energy.XPReward() {
			return fmt.Errorf("habit %q rewards %d XP, expected %d", h.Name, h.XPReward, h.Energy.XPReward())
		}
	}

	seen := make(map[string]bool, len(snap.Logs))
	for _, l := range snap.Logs {
		if !ids[l.HabitID] {
			return fmt.Errorf("log entry on %s references missing habit %s", l.Date, l.HabitID)
		}
		if _, err := validation.ValidateDate(l.Date); err != nil {
			return err
		}
		key := l.HabitID + "|" + l.Date
		if seen[key] {
			return fmt.Errorf("duplicate log entry for habit %s on %s", l.HabitID, l.Date)
		}
		seen[key] = true
	}

	for _, d := range append(append([]string{}, snap.Profile.RestDays...), snap.Profile.PerfectDates...) {
		if _, err := validation.ValidateDate(d); err != nil {
			return err
		}
	}
	return nil
}

func checkClockTimezone(timezone string) error {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return err
	}
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	_, offset := now.In(loc).Zone()
	if offset < -14*3600 || offset > 14*3600 {
		return fmt.Errorf("unusual timezone offset %d seconds", offset)
	}
	return nil
}
