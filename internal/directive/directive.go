// Package directive extracts the bracketed action tags an LLM coach embeds in
// its replies. Parsing is pure: directives are returned to the caller, never
// executed here.
package directive

// DefaultAck is shown instead of a reply whose prose was entirely tags
const DefaultAck = "✅ Done"

// Directive is one of ScheduleEntry, AddHabit or CompleteHabit
type Directive interface {
	Kind() string
	directive()
}

// ScheduleEntry adds content to the agenda of Date (YYYY-MM-DD). Content may be empty.
type ScheduleEntry struct {
	Date    string
	Content string
}

// AddHabit asks for a new habit. Priority and Time are passed through as
// written; the dispatcher maps them onto an energy band and validates the time.
type AddHabit struct {
	Name     string
	Priority string
	Time     string
}

// CompleteHabit marks the habit matching Query (id or name) done today
type CompleteHabit struct {
	Query string
}

func (ScheduleEntry) Kind() string { return "SET_SCHEDULE" }
func (AddHabit) Kind() string      { return "ADD_HABIT" }
func (CompleteHabit) Kind() string { return "COMPLETE_HABIT" }

func (ScheduleEntry) directive() {}
func (AddHabit) directive()      {}
func (CompleteHabit) directive() {}

// Result is the cleaned prose plus the directives found in it, in order
type Result struct {
	Text       string
	Directives []Directive
}

// Display returns the prose to show, falling back to DefaultAck when the
// reply consisted of tags only.
func (r Result) Display() string {
	if r.Text == "" {
		return DefaultAck
	}
	return r.Text
}
