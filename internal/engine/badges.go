package engine

// StatsSnapshot is the input of every badge predicate. All fields only grow
// over the lifetime of a profile, except HabitCount.
type StatsSnapshot struct {
	TotalCompletions int
	MaxStreak        int
	HabitCount       int
	PerfectDays      int
	FreezesUsed      int
	RestDaysUsed     int
	FocusSessions    int
}

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Condition   func(StatsSnapshot) bool
}

var Badges = []Badge{
	{ID: "first_habit", Name: "Langkah Pertama", Description: "Complete your first habit", Icon: "👣", Condition: FirstHabit},
	{ID: "streak_3", Name: "On Fire!", Description: "Reach a 3 day streak", Icon: "🔥", Condition: Streak3},
	{ID: "streak_7", Name: "Seminggu Penuh", Description: "Reach a 7 day streak", Icon: "🌟", Condition: Streak7},
	{ID: "habits_5", Name: "Multi Tasker", Description: "Track 5 habits", Icon: "🎯", Condition: Habits5},
	{ID: "perfect_day", Name: "Hari Sempurna", Description: "Finish every habit in one day", Icon: "💎", Condition: PerfectDay},
	{ID: "freeze_used", Name: "Survival Mode", Description: "Use a streak freeze", Icon: "🧊", Condition: FreezeUsed},
	{ID: "rest_day", Name: "Work Smarter", Description: "Take a rest day", Icon: "🛌", Condition: RestDay},
	{ID: "pomodoro_5", Name: "Fokus Pro", Description: "Finish 5 focus sessions", Icon: "⏱️", Condition: Focus5},
}

func FirstHabit(s StatsSnapshot) bool { return s.TotalCompletions >= 1 }
func Streak3(s StatsSnapshot) bool    { return s.MaxStreak >= 3 }
func Streak7(s StatsSnapshot) bool    { return s.MaxStreak >= 7 }
func Habits5(s StatsSnapshot) bool    { return s.HabitCount >= 5 }
func PerfectDay(s StatsSnapshot) bool { return s.PerfectDays >= 1 }
func FreezeUsed(s StatsSnapshot) bool { return s.FreezesUsed >= 1 }
func RestDay(s StatsSnapshot) bool    { return s.RestDaysUsed >= 1 }
func Focus5(s StatsSnapshot) bool     { return s.FocusSessions >= 5 }

// BadgeByID looks a badge up in the catalog
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Stats captures the badge inputs. MaxStreak is the best streak ever observed,
// so it never decreases when a current streak breaks.
func (e *Engine) Stats() StatsSnapshot {
	e.recordBestStreak()
	return StatsSnapshot{
		TotalCompletions: e.profile.TotalCompletions,
		MaxStreak:        e.profile.BestStreak,
		HabitCount:       len(e.habits),
		PerfectDays:      len(e.perfect),
		FreezesUsed:      e.profile.FreezesUsed,
		RestDaysUsed:     e.profile.RestDaysUsed,
		FocusSessions:    e.profile.FocusSessions,
	}
}

// EvaluateBadges adds every badge whose predicate now holds and that was not
// earned before. Earned badges are never revoked.
func (e *Engine) EvaluateBadges() []string {
	stats := e.Stats()
	var earned []string
	for _, b := range Badges {
		if e.badges[b.ID] || !b.Condition(stats) {
			continue
		}
		e.badges[b.ID] = true
		e.profile.EarnedBadges = append(e.profile.EarnedBadges, b.ID)
		earned = append(earned, b.ID)
		e.emit(Event{Kind: EventBadgeEarned, Badge: b})
	}
	return earned
}

// HasBadge reports whether the badge has been earned
func (e *Engine) HasBadge(id string) bool {
	return e.badges[id]
}
