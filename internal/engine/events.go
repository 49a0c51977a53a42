package engine

type EventKind string

const (
	EventLevelUp      EventKind = "level_up"
	EventBadgeEarned  EventKind = "badge_earned"
	EventFreezeEarned EventKind = "freeze_earned"
	EventPerfectDay   EventKind = "perfect_day"
)

// Event is an observable milestone produced by a mutation
type Event struct {
	Kind    EventKind
	Level   Level  // EventLevelUp
	Badge   Badge  // EventBadgeEarned
	HabitID string // EventFreezeEarned
	Streak  int    // EventFreezeEarned
	Date    string // EventPerfectDay
}

// Listener receives events synchronously, in the order they happen
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a plain function to Listener
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Message renders a one-line celebration for the event
func (ev Event) Message() string {
	switch ev.Kind {
	case EventLevelUp:
		return "🆙 Level Up! " + ev.Level.Title + ", new costume unlocked: " + ev.Level.Emoji
	case EventBadgeEarned:
		return ev.Badge.Icon + " Badge earned: " + ev.Badge.Name
	case EventFreezeEarned:
		return "🧊 7-day streak! You earned 1 streak freeze"
	case EventPerfectDay:
		return "💎 Perfect day on " + ev.Date
	}
	return string(ev.Kind)
}
