package engine

import (
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/utils"
)

// LogStatus returns the recorded status of a habit on a date, ignoring rest days
func (e *Engine) LogStatus(habitID, date string) models.Status {
	return e.logs[habitID][date]
}

// effectiveStatus resolves the status used by streak queries: an explicit entry
// wins, otherwise a rest day reads as rest.
func (e *Engine) effectiveStatus(habitID, date string) models.Status {
	if s, ok := e.logs[habitID][date]; ok {
		return s
	}
	if e.IsRestDay(date) {
		return models.StatusRest
	}
	return models.StatusNone
}

// IsRestDay reports whether date is a rest day, either toggled explicitly or
// falling on the weekly rest weekday.
func (e *Engine) IsRestDay(date string) bool {
	if e.restDays[date] {
		return true
	}
	if e.profile.RestWeekday != nil {
		wd, err := utils.Weekday(date)
		if err == nil && wd == *e.profile.RestWeekday {
			return true
		}
	}
	return false
}

// walkStreak counts backward from today. status reports the day's status;
// done counts, skipped/rest are neutral, anything else ends the walk unless it
// is today, which is still open.
func (e *Engine) walkStreak(status func(date string) models.Status) int {
	today, err := utils.ParseDate(e.Today())
	if err != nil {
		return 0
	}
	streak := 0
	for i := 0; i <= constants.StreakLookbackDays; i++ {
		date := today.AddDate(0, 0, -i).Format(constants.DateFormat)
		switch status(date) {
		case models.StatusDone:
			streak++
		case models.StatusSkipped, models.StatusRest:
			continue
		default:
			if i > 0 {
				return streak
			}
		}
	}
	return streak
}

// HabitStreak returns the current streak of a habit. Unknown habits have no streak.
func (e *Engine) HabitStreak(habitID string) int {
	if _, ok := e.logs[habitID]; !ok {
		return 0
	}
	return e.walkStreak(func(date string) models.Status {
		return e.effectiveStatus(habitID, date)
	})
}

// GlobalStreak counts days on which every habit has a streak-preserving status.
// A covered day counts as one, whatever mix of done/skipped/rest covers it.
func (e *Engine) GlobalStreak() int {
	if len(e.habits) == 0 {
		return 0
	}
	return e.walkStreak(func(date string) models.Status {
		for _, h := range e.habits {
			if !e.effectiveStatus(h.ID, date).PreservesStreak() {
				return models.StatusNone
			}
		}
		return models.StatusDone
	})
}

// maxCurrentStreak is the best of the global streak and every habit streak right now
func (e *Engine) maxCurrentStreak() int {
	best := e.GlobalStreak()
	for _, h := range e.habits {
		if s := e.HabitStreak(h.ID); s > best {
			best = s
		}
	}
	return best
}

func (e *Engine) recordBestStreak() {
	if s := e.maxCurrentStreak(); s > e.profile.BestStreak {
		e.profile.BestStreak = s
	}
}
