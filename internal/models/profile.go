package models

import "time"

// ProgressProfile holds per-user gamification state.
// Level is intentionally absent: it is always derived from XP.
type ProgressProfile struct {
	XP               int               `json:"xp"`
	FreezeTokens     int               `json:"freeze_tokens"`
	EarnedBadges     []string          `json:"earned_badges"`
	RestDays         []string          `json:"rest_days"` // YYYY-MM-DD format
	RestWeekday      *time.Weekday     `json:"rest_weekday,omitempty"`
	RestDaysUsed     int               `json:"rest_days_used"`
	FreezesUsed      int               `json:"freezes_used"`
	FocusSessions    int               `json:"focus_sessions"`
	PerfectDates     []string          `json:"perfect_dates"`
	TotalCompletions int               `json:"total_completions"`
	BestStreak       int               `json:"best_streak"`
	DisplayName      string            `json:"display_name"`
	ActiveCostume    int               `json:"active_costume"`
	Notes            map[string]string `json:"notes,omitempty"` // date -> newline separated agenda
}

// PerfectDays returns the number of distinct perfect days recorded
func (p ProgressProfile) PerfectDays() int {
	return len(p.PerfectDates)
}

// HasBadge reports whether the badge id has been earned
func (p ProgressProfile) HasBadge(id string) bool {
	for _, b := range p.EarnedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// Snapshot is the full persisted state of one user
type Snapshot struct {
	Habits  []Habit         `json:"habits"`
	Logs    []LogEntry      `json:"logs"`
	Profile ProgressProfile `json:"profile"`
}

// NewProfile returns the profile a user starts with
func NewProfile(displayName string) ProgressProfile {
	return ProgressProfile{
		EarnedBadges:  []string{},
		RestDays:      []string{},
		PerfectDates:  []string{},
		DisplayName:   displayName,
		ActiveCostume: 1,
		Notes:         map[string]string{},
	}
}
