package engine

import (
	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// SetLogStatus records status for a habit on a date with toggle semantics:
// setting the status already present clears it, StatusNone clears, anything
// else overwrites. The resulting status is returned.
//
// Only a transition into done pays out (XP, completion count, freeze tokens).
// Leaving done never takes anything back.
func (e *Engine) SetLogStatus(habitID, date string, status models.Status) (models.Status, error) {
	if _, err := validation.ValidateDate(date); err != nil {
		return models.StatusNone, err
	}
	habit, ok := e.Habit(habitID)
	if !ok {
		return models.StatusNone, validation.NotFound(habitID)
	}
	if status != models.StatusNone && !status.PreservesStreak() {
		return models.StatusNone, validation.Invalid("status", string(status), "expected done, skipped, rest or none")
	}

	current := e.logs[habitID][date]
	next := status
	if next == current {
		next = models.StatusNone
	}

	streakBefore := e.HabitStreak(habitID)
	if next == models.StatusNone {
		delete(e.logs[habitID], date)
	} else {
		e.logs[habitID][date] = next
	}

	if next == models.StatusDone && current != models.StatusDone {
		e.profile.TotalCompletions++
		e.AddXP(habit.XPReward)

		streakAfter := e.HabitStreak(habitID)
		if streakAfter != streakBefore && streakAfter > 0 && streakAfter%constants.FreezeMilestone == 0 {
			e.profile.FreezeTokens++
			e.emit(Event{Kind: EventFreezeEarned, HabitID: habitID, Streak: streakAfter})
		}
		e.checkPerfectDay(date)
	}

	e.recordBestStreak()
	e.EvaluateBadges()
	return next, nil
}

// checkPerfectDay records date as perfect when every habit is explicitly done
// on it and it is not a rest day. Perfect days are never unrecorded.
func (e *Engine) checkPerfectDay(date string) {
	if e.perfect[date] || len(e.habits) == 0 || e.IsRestDay(date) {
		return
	}
	for _, h := range e.habits {
		if e.logs[h.ID][date] != models.StatusDone {
			return
		}
	}
	e.perfect[date] = true
	e.emit(Event{Kind: EventPerfectDay, Date: date})
}
