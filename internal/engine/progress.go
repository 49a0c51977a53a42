package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/validation"
)

// ToggleRestDay adds or removes date from the rest-day set and returns whether
// it is now a rest day. RestDaysUsed counts every toggle on, for life.
func (e *Engine) ToggleRestDay(date string) (bool, error) {
	if _, err := validation.ValidateDate(date); err != nil {
		return false, err
	}
	if e.restDays[date] {
		delete(e.restDays, date)
		return false, nil
	}
	e.restDays[date] = true
	e.profile.RestDaysUsed++
	e.EvaluateBadges()
	return true, nil
}

// SetRestWeekday sets or clears (nil) the recurring weekly rest day
func (e *Engine) SetRestWeekday(wd *time.Weekday) error {
	if wd == nil {
		e.profile.RestWeekday = nil
		return nil
	}
	if *wd < time.Sunday || *wd > time.Saturday {
		return validation.Invalid("weekday", strconv.Itoa(int(*wd)), "out of range")
	}
	d := *wd
	e.profile.RestWeekday = &d
	return nil
}

// UseStreakFreeze spends one freeze token. Without tokens it does nothing and
// returns false.
func (e *Engine) UseStreakFreeze() bool {
	if e.profile.FreezeTokens <= 0 {
		return false
	}
	e.profile.FreezeTokens--
	e.profile.FreezesUsed++
	e.EvaluateBadges()
	return true
}

// CompleteFocusSession records a finished focus timer and pays its XP
func (e *Engine) CompleteFocusSession() {
	e.profile.FocusSessions++
	e.AddXP(constants.XPFocusSession)
	e.EvaluateBadges()
}

// SetActiveCostume selects the costume of an unlocked level
func (e *Engine) SetActiveCostume(level int) error {
	if level < 1 || level > len(Levels) {
		return validation.Invalid("costume", strconv.Itoa(level), "no such costume")
	}
	if level > e.Level().Level {
		return validation.Invalid("costume", strconv.Itoa(level), "costume is still locked")
	}
	e.profile.ActiveCostume = level
	return nil
}

// ActiveCostume returns the level row whose costume is being worn
func (e *Engine) ActiveCostume() Level {
	idx := e.profile.ActiveCostume - 1
	if idx < 0 || idx >= len(Levels) {
		return Levels[0]
	}
	return Levels[idx]
}

func (e *Engine) SetDisplayName(name string) {
	e.profile.DisplayName = strings.TrimSpace(name)
}

// AddScheduleEntry appends a line to the agenda of date. Empty content is ignored.
func (e *Engine) AddScheduleEntry(date, content string) error {
	if _, err := validation.ValidateDate(date); err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if existing := e.profile.Notes[date]; existing != "" {
		e.profile.Notes[date] = existing + "\n" + content
	} else {
		e.profile.Notes[date] = content
	}
	return nil
}

// ScheduleFor returns the agenda lines of one date
func (e *Engine) ScheduleFor(date string) []string {
	note := e.profile.Notes[date]
	if note == "" {
		return nil
	}
	return strings.Split(note, "\n")
}

// ScheduleDay is one date of the agenda
type ScheduleDay struct {
	Date  string
	Lines []string
}

// Schedule returns every agenda date from today onward, ascending
func (e *Engine) Schedule() []ScheduleDay {
	today := e.Today()
	var days []ScheduleDay
	for date := range e.profile.Notes {
		if date < today {
			continue
		}
		days = append(days, ScheduleDay{Date: date, Lines: e.ScheduleFor(date)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
