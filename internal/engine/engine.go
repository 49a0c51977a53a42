// Package engine maintains the habit log and gamification state of one user
// and derives every statistic the rest of the application displays.
//
// An Engine is not safe for concurrent use. Callers sequence operations the
// same way a single UI event loop would.
package engine

import (
	"sort"
	"time"

	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/utils"
)

type Engine struct {
	habits   []models.Habit
	logs     map[string]map[string]models.Status // habitID -> date -> status
	profile  models.ProgressProfile
	restDays map[string]bool
	perfect  map[string]bool
	badges   map[string]bool

	now      func() time.Time
	loc      *time.Location
	listener Listener
}

type Option func(*Engine)

// WithClock overrides the wall clock used to determine "today"
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the calendar used to turn instants into dates
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithListener registers the receiver of level-up, badge and freeze events
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// New builds an engine from a persisted snapshot. Log entries that reference
// unknown habits or carry an unknown status are dropped.
func New(snap models.Snapshot, opts ...Option) *Engine {
	e := &Engine{
		logs:     make(map[string]map[string]models.Status),
		restDays: make(map[string]bool),
		perfect:  make(map[string]bool),
		badges:   make(map[string]bool),
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, h := range snap.Habits {
		if !h.Energy.IsValid() {
			h.Energy = models.EnergyMedium
		}
		if h.XPReward <= 0 {
			h.XPReward = h.Energy.XPReward()
		}
		e.habits = append(e.habits, h)
		e.logs[h.ID] = make(map[string]models.Status)
	}

	for _, entry := range snap.Logs {
		byDate, ok := e.logs[entry.HabitID]
		if !ok {
			continue
		}
		if entry.Status != models.StatusDone && entry.Status != models.StatusSkipped && entry.Status != models.StatusRest {
			continue
		}
		byDate[entry.Date] = entry.Status
	}

	e.profile = snap.Profile
	if e.profile.ActiveCostume < 1 {
		e.profile.ActiveCostume = 1
	}
	if e.profile.Notes == nil {
		e.profile.Notes = make(map[string]string)
	}
	for _, d := range snap.Profile.RestDays {
		e.restDays[d] = true
	}
	for _, d := range snap.Profile.PerfectDates {
		e.perfect[d] = true
	}
	var earned []string
	for _, b := range snap.Profile.EarnedBadges {
		if !e.badges[b] {
			e.badges[b] = true
			earned = append(earned, b)
		}
	}
	e.profile.EarnedBadges = earned

	return e
}

// Snapshot exports the full state in a stable order, suitable for persistence.
func (e *Engine) Snapshot() models.Snapshot {
	habits := make([]models.Habit, len(e.habits))
	copy(habits, e.habits)

	var logs []models.LogEntry
	for _, h := range e.habits {
		dates := make([]string, 0, len(e.logs[h.ID]))
		for d := range e.logs[h.ID] {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates {
			logs = append(logs, models.LogEntry{HabitID: h.ID, Date: d, Status: e.logs[h.ID][d]})
		}
	}

	return models.Snapshot{
		Habits:  habits,
		Logs:    logs,
		Profile: e.Profile(),
	}
}

// Profile returns a copy of the progress profile
func (e *Engine) Profile() models.ProgressProfile {
	p := e.profile
	p.EarnedBadges = append([]string{}, e.profile.EarnedBadges...)
	p.RestDays = sortedKeys(e.restDays)
	p.PerfectDates = sortedKeys(e.perfect)
	p.Notes = make(map[string]string, len(e.profile.Notes))
	for k, v := range e.profile.Notes {
		p.Notes[k] = v
	}
	if e.profile.RestWeekday != nil {
		wd := *e.profile.RestWeekday
		p.RestWeekday = &wd
	}
	return p
}

// Today returns the current calendar date in the engine's location
func (e *Engine) Today() string {
	return utils.DateKey(e.now(), e.loc)
}

func (e *Engine) emit(ev Event) {
	if e.listener != nil {
		e.listener.OnEvent(ev)
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
