package models

import (
	"time"

	"github.com/habitflow/habitflow/internal/constants"
)

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// ParseEnergy maps free text (including coach priorities) onto an energy band.
// Unknown values fall back to medium.
func ParseEnergy(s string) Energy {
	switch Energy(s) {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return Energy(s)
	}
	return EnergyMedium
}

// IsValid reports whether e is one of the known energy bands
func (e Energy) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// XPReward returns the completion reward for a habit of this energy band
func (e Energy) XPReward() int {
	switch e {
	case EnergyHigh:
		return constants.XPRewardHigh
	case EnergyLow:
		return constants.XPRewardLow
	default:
		return constants.XPRewardMedium
	}
}

// Habit represents a recurring routine tracked per calendar day
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Category  string    `json:"category"`
	Energy    Energy    `json:"energy"`
	Time      string    `json:"time,omitempty"` // HH:MM format
	XPReward  int       `json:"xp_reward"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Status is the recorded state of one habit on one day.
// StatusNone is the default and is never stored.
type Status string

const (
	StatusNone    Status = ""
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusRest    Status = "rest"
)

// ParseStatus accepts the stored names plus "none" for clearing an entry
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "", "none":
		return StatusNone, true
	case string(StatusDone):
		return StatusDone, true
	case string(StatusSkipped):
		return StatusSkipped, true
	case string(StatusRest):
		return StatusRest, true
	}
	return StatusNone, false
}

// PreservesStreak reports whether the status keeps a streak alive
func (s Status) PreservesStreak() bool {
	return s == StatusDone || s == StatusSkipped || s == StatusRest
}

func (s Status) String() string {
	if s == StatusNone {
		return "none"
	}
	return string(s)
}

// LogEntry represents a single day's status of a habit
type LogEntry struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"` // YYYY-MM-DD format
	Status  Status `json:"status"`
}
