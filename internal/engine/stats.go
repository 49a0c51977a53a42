package engine

import (
	"math"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/utils"
)

// DisciplineScore blends the 7-day completion ratio (80%) with a streak bonus
// (2 per global streak day, capped at 20). The result is in [0,100].
func (e *Engine) DisciplineScore() int {
	if len(e.habits) == 0 {
		return 0
	}
	doneCount := 0
	for _, date := range utils.LastNDates(e.Today(), constants.DisciplineWindowDays) {
		for _, h := range e.habits {
			if e.logs[h.ID][date] == models.StatusDone {
				doneCount++
			}
		}
	}
	possible := float64(len(e.habits) * constants.DisciplineWindowDays)
	base := int(math.Round(float64(constants.DisciplineBaseWeight) * float64(doneCount) / possible))
	bonus := min(constants.DisciplineBonusCap, constants.DisciplineBonusPerDay*e.GlobalStreak())
	return min(100, base+bonus)
}

// TodayCompletionPct is the share of habits done today, rounded to a whole percent
func (e *Engine) TodayCompletionPct() int {
	return e.completionPct(e.Today())
}

func (e *Engine) completionPct(date string) int {
	if len(e.habits) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(e.doneOn(date)) / float64(len(e.habits))))
}

func (e *Engine) doneOn(date string) int {
	done := 0
	for _, h := range e.habits {
		if e.logs[h.ID][date] == models.StatusDone {
			done++
		}
	}
	return done
}

// DayStats is the completion summary of one date
type DayStats struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
	Done  int    `json:"done"`
	Pct   int    `json:"pct"`
	Rest  bool   `json:"rest"`
}

// WeekStats summarises each of the given dates
func (e *Engine) WeekStats(dates []string) []DayStats {
	stats := make([]DayStats, 0, len(dates))
	for _, date := range dates {
		stats = append(stats, DayStats{
			Date:  date,
			Total: len(e.habits),
			Done:  e.doneOn(date),
			Pct:   e.completionPct(date),
			Rest:  e.IsRestDay(date),
		})
	}
	return stats
}

// CurrentWeekDates returns Monday..Sunday of the current week
func (e *Engine) CurrentWeekDates() []string {
	return utils.WeekDates(e.Today())
}

// LastNDates returns the last n dates including today, oldest first
func (e *Engine) LastNDates(n int) []string {
	return utils.LastNDates(e.Today(), n)
}

// WeeklyCompletionPct averages the completion of the trailing 7 days
func (e *Engine) WeeklyCompletionPct() int {
	if len(e.habits) == 0 {
		return 0
	}
	done := 0
	for _, date := range e.LastNDates(constants.DisciplineWindowDays) {
		done += e.doneOn(date)
	}
	possible := float64(len(e.habits) * constants.DisciplineWindowDays)
	return int(math.Round(100 * float64(done) / possible))
}

// HabitStat is the per-habit summary sent to the coach
type HabitStat struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	CompletionPct int    `json:"completion_pct"`
	Streak        int    `json:"streak"`
}

// HabitStats reports the 7-day completion and current streak of every habit
func (e *Engine) HabitStats() []HabitStat {
	last7 := e.LastNDates(constants.DisciplineWindowDays)
	stats := make([]HabitStat, 0, len(e.habits))
	for _, h := range e.habits {
		done := 0
		for _, date := range last7 {
			if e.logs[h.ID][date] == models.StatusDone {
				done++
			}
		}
		stats = append(stats, HabitStat{
			ID:            h.ID,
			Name:          h.Name,
			Icon:          h.Icon,
			CompletionPct: int(math.Round(100 * float64(done) / float64(len(last7)))),
			Streak:        e.HabitStreak(h.ID),
		})
	}
	return stats
}

// MissedHabits lists the habits with no done entry on any of the
// MissedWindowDays days before today. A rest day in the window is not a miss,
// and habits created inside the window are not flagged yet.
func (e *Engine) MissedHabits() []models.Habit {
	window := make([]string, 0, constants.MissedWindowDays)
	for i := 1; i <= constants.MissedWindowDays; i++ {
		d, err := utils.AddDays(e.Today(), -i)
		if err != nil {
			return nil
		}
		window = append(window, d)
	}
	oldest := window[len(window)-1]

	var missed []models.Habit
	for _, h := range e.habits {
		if !h.CreatedAt.IsZero() && utils.DateKey(h.CreatedAt, e.loc) > oldest {
			continue
		}
		misses := 0
		for _, d := range window {
			if s := e.effectiveStatus(h.ID, d); s != models.StatusDone && s != models.StatusRest {
				misses++
			}
		}
		if misses == len(window) {
			missed = append(missed, h)
		}
	}
	return missed
}
