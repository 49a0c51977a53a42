// Package dispatch applies coach directives to the engine.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/habitflow/habitflow/internal/constants"
	"github.com/habitflow/habitflow/internal/directive"
	"github.com/habitflow/habitflow/internal/engine"
	"github.com/habitflow/habitflow/internal/logger"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// Outcome of applying one directive
type Outcome int

const (
	Applied Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Action records what happened to one directive
type Action struct {
	Directive directive.Directive
	Outcome   Outcome
	Detail    string
	Err       error
}

// Report lists the actions in directive order
type Report struct {
	Actions []Action
}

// Changed reports whether any directive mutated the engine
func (r Report) Changed() bool {
	for _, a := range r.Actions {
		if a.Outcome == Applied {
			return true
		}
	}
	return false
}

// Summary returns one line per action that is worth telling the user about
func (r Report) Summary() []string {
	var lines []string
	for _, a := range r.Actions {
		switch a.Outcome {
		case Applied:
			lines = append(lines, a.Detail)
		case Failed:
			lines = append(lines, fmt.Sprintf("Could not %s: %v", a.Detail, a.Err))
		}
	}
	return lines
}

// Dispatcher applies directives in order. Each directive is independent: a
// failure is recorded and the rest still run.
type Dispatcher struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Dispatcher {
	return &Dispatcher{engine: e}
}

// Apply runs every directive of res against the engine
func (d *Dispatcher) Apply(res directive.Result) Report {
	var report Report
	for _, dir := range res.Directives {
		var a Action
		switch v := dir.(type) {
		case directive.ScheduleEntry:
			a = d.schedule(v)
		case directive.AddHabit:
			a = d.addHabit(v)
		case directive.CompleteHabit:
			a = d.complete(v)
		default:
			a = Action{Outcome: Skipped, Detail: "unknown directive"}
		}
		a.Directive = dir
		if a.Err != nil {
			logger.Warn("Directive failed", "kind", dir.Kind(), "error", a.Err)
		} else {
			logger.Debug("Directive handled", "kind", dir.Kind(), "outcome", a.Outcome)
		}
		report.Actions = append(report.Actions, a)
	}
	return report
}

func (d *Dispatcher) schedule(s directive.ScheduleEntry) Action {
	if strings.TrimSpace(s.Content) == "" {
		return Action{Outcome: Skipped, Detail: "empty agenda for " + s.Date}
	}
	if err := d.engine.AddScheduleEntry(s.Date, s.Content); err != nil {
		return Action{Outcome: Failed, Detail: "schedule " + s.Date, Err: err}
	}
	return Action{Outcome: Applied, Detail: fmt.Sprintf("📅 %s: %s", s.Date, s.Content)}
}

func (d *Dispatcher) addHabit(a directive.AddHabit) Action {
	name := strings.TrimSpace(a.Name)
	for _, h := range d.engine.Habits() {
		if strings.EqualFold(h.Name, name) {
			return Action{Outcome: Skipped, Detail: "habit already exists: " + h.Name}
		}
	}

	// A malformed time is dropped rather than rejecting the whole habit
	timeStr := a.Time
	if validation.ValidateTime(timeStr) != nil {
		timeStr = ""
	}

	h, err := d.engine.AddHabit(engine.HabitInput{
		Name:   name,
		Energy: models.ParseEnergy(strings.ToLower(a.Priority)),
		Time:   timeStr,
		Notes:  constants.CoachHabitNote,
	})
	if err != nil {
		return Action{Outcome: Failed, Detail: "add habit " + name, Err: err}
	}
	return Action{Outcome: Applied, Detail: fmt.Sprintf("➕ Added habit %s %s", h.Icon, h.Name)}
}

func (d *Dispatcher) complete(c directive.CompleteHabit) Action {
	h, ok := d.engine.FindHabit(c.Query)
	if !ok {
		return Action{Outcome: Failed, Detail: "complete " + c.Query, Err: validation.NotFound(c.Query)}
	}
	today := d.engine.Today()
	if d.engine.LogStatus(h.ID, today) == models.StatusDone {
		return Action{Outcome: Skipped, Detail: h.Name + " already done today"}
	}
	if _, err := d.engine.SetLogStatus(h.ID, today, models.StatusDone); err != nil {
		return Action{Outcome: Failed, Detail: "complete " + h.Name, Err: err}
	}
	return Action{Outcome: Applied, Detail: fmt.Sprintf("✅ %s %s done", h.Icon, h.Name)}
}
