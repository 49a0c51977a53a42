package constants

import "time"

const (
	// XP rewards per energy band. The gamified mapping is canonical everywhere
	// a habit is created, including habits added by the coach.
	XPRewardHigh   = 25
	XPRewardMedium = 15
	XPRewardLow    = 10

	// Flat bonuses
	XPAddHabitBonus = 5
	XPFocusSession  = 10

	// A focus session counts only once its work phase has run out.
	FocusWorkDuration  = 25 * time.Minute
	FocusBreakDuration = 5 * time.Minute

	// StreakLookbackDays bounds the backward walk used by streak queries.
	StreakLookbackDays = 365

	// FreezeMilestone grants one streak freeze each time a habit streak reaches a multiple of it.
	FreezeMilestone = 7

	// Discipline score weights
	DisciplineBaseWeight  = 80
	DisciplineBonusPerDay = 2
	DisciplineBonusCap    = 20
	DisciplineWindowDays  = 7

	// A habit with no done entry on any of this many days before today is missed.
	MissedWindowDays = 3

	// Habit constraints
	MaxHabitNameLength = 100
	DefaultHabitIcon   = "🎯"
	DefaultCategory    = "General"
	CoachHabitNote     = "Added by AI Coach"

	// Coach payload limits
	MaxAnalysisHabits  = 50
	MaxCoachMessageLen = 200
	MaxEncouragement   = 200
)
